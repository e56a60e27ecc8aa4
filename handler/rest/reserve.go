package rest

import (
	"errors"
	"net/http"
	"strings"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/handler/views"
)

func allReservesHandler(reserveStr core.IReserveStore, positionStr core.IPositionStore, reserveSrv core.IReserveService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		reserves, err := reserveStr.All(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		reserveViews := make([]*views.Reserve, 0, len(reserves))
		for _, reserve := range reserves {
			reserveViews = append(reserveViews, getReserveView(r, reserve, positionStr, reserveSrv))
		}

		render.JSON(w, reserveViews)
	}
}

func reserveHandler(reserveStr core.IReserveStore, positionStr core.IPositionStore, reserveSrv core.IReserveService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Symbol string `json:"symbol" valid:"required"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		reserve, err := reserveStr.FindBySymbol(ctx, strings.ToUpper(params.Symbol))
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if reserve.ID == 0 {
			render.NotFoundRequest(w, errors.New("reserve not found"))
			return
		}

		render.JSON(w, getReserveView(r, reserve, positionStr, reserveSrv))
	}
}

func getReserveView(r *http.Request, reserve *core.Reserve, positionStr core.IPositionStore, reserveSrv core.IReserveService) *views.Reserve {
	ctx := r.Context()

	suppliers, err := positionStr.CountOfSuppliers(ctx, reserve.AssetID)
	if err != nil {
		suppliers = 0
	}

	borrowers, err := positionStr.CountOfBorrowers(ctx, reserve.AssetID)
	if err != nil {
		borrowers = 0
	}

	return &views.Reserve{
		Reserve:   *reserve,
		SupplyAPY: reserveSrv.CurSupplyRate(ctx, reserve),
		BorrowAPY: reserveSrv.CurBorrowRate(ctx, reserve),
		Suppliers: suppliers,
		Borrowers: borrowers,
	}
}
