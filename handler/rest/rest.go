package rest

import (
	"errors"
	"net/http"

	"lendpool/core"
	"lendpool/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	reserveStr core.IReserveStore,
	positionStr core.IPositionStore,
	accountStr core.IAccountStore,
	liquidationStr core.ILiquidationStore,
	reserveSrv core.IReserveService,
	healthSrv core.IHealthService,
	poolSrv core.IPoolService,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/reserves", allReservesHandler(reserveStr, positionStr, reserveSrv))
	router.Get("/reserves/show", reserveHandler(reserveStr, positionStr, reserveSrv))
	router.Get("/accounts/{user_id}", accountHandler(healthSrv))
	router.Get("/accounts-at-risk", accountsAtRiskHandler(accountStr))
	router.Get("/liquidations", liquidationsHandler(liquidationStr))

	router.Post("/supply", supplyHandler(poolSrv))
	router.Post("/withdraw", withdrawHandler(poolSrv))
	router.Post("/collaterals/deposit", depositCollateralHandler(poolSrv))
	router.Post("/collaterals/withdraw", withdrawCollateralHandler(poolSrv))
	router.Post("/borrow", borrowHandler(poolSrv))
	router.Post("/repay", repayHandler(poolSrv))
	router.Post("/liquidate", liquidateHandler(poolSrv))

	return router
}
