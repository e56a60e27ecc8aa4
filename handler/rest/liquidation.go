package rest

import (
	"net/http"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
)

func liquidationsHandler(liquidationStr core.ILiquidationStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			User  string `json:"user"`
			Limit int    `json:"limit"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		limit := params.Limit
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		var (
			events []*core.LiquidationEvent
			err    error
		)
		if params.User != "" {
			events, err = liquidationStr.ListByUser(ctx, params.User, limit)
		} else {
			events, err = liquidationStr.List(ctx, limit)
		}
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, events)
	}
}
