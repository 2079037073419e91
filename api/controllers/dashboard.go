package controllers

import (
	"net/http"

	"github.com/angelmondragon/storewise-backend/api/responses"
	"github.com/angelmondragon/storewise-backend/api/validators"
	"github.com/angelmondragon/storewise-backend/internal/dashboard"
	"github.com/angelmondragon/storewise-backend/pkg/logger"
)

const maxChartWindow = 366

func DashboardSummary(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// DashboardCharts renders the sales series. Zero or missing parameters take
// the configured defaults.
func DashboardCharts(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params dashboard.ChartParams
		var err error
		if params.Days, err = validators.ParseQueryInt(r, "days", 0, 0, maxChartWindow); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if params.Weeks, err = validators.ParseQueryInt(r, "weeks", 0, 0, maxChartWindow); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if params.Top, err = validators.ParseQueryInt(r, "top", 0, 0, maxChartWindow); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		charts, err := svc.Charts(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, charts)
	}
}
