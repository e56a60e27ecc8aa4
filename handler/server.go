package handler

import (
	"net/http"

	"lendpool/core"
	"lendpool/handler/rest"

	"github.com/go-chi/chi"
)

// Server server
type Server struct {
	cfg *core.Config

	reserveStore     core.IReserveStore
	positionStore    core.IPositionStore
	accountStore     core.IAccountStore
	liquidationStore core.ILiquidationStore

	reserveSrv core.IReserveService
	healthSrv  core.IHealthService
	poolSrv    core.IPoolService
}

// New new server
func New(
	cfg *core.Config,
	reserveStore core.IReserveStore,
	positionStore core.IPositionStore,
	accountStore core.IAccountStore,
	liquidationStore core.ILiquidationStore,
	reserveSrv core.IReserveService,
	healthSrv core.IHealthService,
	poolSrv core.IPoolService,
) Server {
	return Server{
		cfg:              cfg,
		reserveStore:     reserveStore,
		positionStore:    positionStore,
		accountStore:     accountStore,
		liquidationStore: liquidationStore,
		reserveSrv:       reserveSrv,
		healthSrv:        healthSrv,
		poolSrv:          poolSrv,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(resetRoutePath)

	r.Mount("/", rest.Handle(
		s.reserveStore,
		s.positionStore,
		s.accountStore,
		s.liquidationStore,
		s.reserveSrv,
		s.healthSrv,
		s.poolSrv,
	))

	return r
}

func resetRoutePath(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if c := chi.RouteContext(ctx); c != nil {
			c.RoutePath = r.URL.Path
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
