package rest

import (
	"net/http"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"

	"github.com/shopspring/decimal"
)

type poolParams struct {
	UserID  string          `json:"user_id" valid:"uuid,required"`
	AssetID string          `json:"asset_id" valid:"uuid,required"`
	Amount  decimal.Decimal `json:"amount"`
	Max     bool            `json:"max"`
}

func supplyHandler(poolSrv core.IPoolService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params poolParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		position, err := poolSrv.Supply(r.Context(), params.UserID, params.AssetID, params.Amount)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, position)
	}
}

func withdrawHandler(poolSrv core.IPoolService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params poolParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		position, err := poolSrv.Withdraw(r.Context(), params.UserID, params.AssetID, params.Amount, params.Max)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, position)
	}
}

func depositCollateralHandler(poolSrv core.IPoolService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params poolParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		collateral, err := poolSrv.DepositCollateral(r.Context(), params.UserID, params.AssetID, params.Amount)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, collateral)
	}
}

func withdrawCollateralHandler(poolSrv core.IPoolService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params poolParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		collateral, err := poolSrv.WithdrawCollateral(r.Context(), params.UserID, params.AssetID, params.Amount)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, collateral)
	}
}

func borrowHandler(poolSrv core.IPoolService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params poolParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		position, err := poolSrv.Borrow(r.Context(), params.UserID, params.AssetID, params.Amount)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, position)
	}
}

func repayHandler(poolSrv core.IPoolService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params poolParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		position, err := poolSrv.Repay(r.Context(), params.UserID, params.AssetID, params.Amount, params.Max)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, position)
	}
}

func liquidateHandler(poolSrv core.IPoolService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Liquidator        string          `json:"liquidator" valid:"uuid,required"`
			UserID            string          `json:"user_id" valid:"uuid,required"`
			CollateralAssetID string          `json:"collateral_asset_id" valid:"uuid,required"`
			DebtAssetID       string          `json:"debt_asset_id" valid:"uuid,required"`
			DebtToCover       decimal.Decimal `json:"debt_to_cover"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		event, err := poolSrv.Liquidate(r.Context(), params.Liquidator, params.UserID, params.CollateralAssetID, params.DebtAssetID, params.DebtToCover)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, event)
	}
}
