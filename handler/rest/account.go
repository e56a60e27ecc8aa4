package rest

import (
	"net/http"
	"time"

	"lendpool/core"
	"lendpool/handler/render"
	"lendpool/handler/views"
	"lendpool/internal/lending"

	"github.com/go-chi/chi"
)

func accountHandler(healthSrv core.IHealthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := chi.URLParam(r, "user_id")

		snapshot, err := healthSrv.Snapshot(ctx, userID, time.Now(), nil)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		positionViews := make([]*views.Position, 0, len(snapshot.Positions))
		for _, p := range snapshot.Positions {
			view := &views.Position{Position: *p}
			if reserve, ok := snapshot.Reserves[p.AssetID]; ok {
				view.SupplyBalance = lending.SupplyBalance(p.ScaledSupply, reserve.SupplyIndex)
				view.DebtBalance = lending.DebtBalance(p.ScaledDebt, reserve.BorrowIndex)
			}
			positionViews = append(positionViews, view)
		}

		render.JSON(w, &views.Account{
			UserID:          userID,
			HealthFactor:    healthSrv.HealthFactor(snapshot),
			CollateralValue: healthSrv.CollateralValue(snapshot),
			DebtValue:       healthSrv.DebtValue(snapshot),
			Positions:       positionViews,
			Collaterals:     snapshot.Collaterals,
		})
	}
}

// accountsAtRiskHandler accounts persisted by the scanner, worst first
func accountsAtRiskHandler(accountStr core.IAccountStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accounts, err := accountStr.ListUnsafe(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, accounts)
	}
}
