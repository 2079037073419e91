package controllers

import (
	"net/http"

	"github.com/angelmondragon/storewise-backend/api/responses"
	"github.com/angelmondragon/storewise-backend/api/validators"
	"github.com/angelmondragon/storewise-backend/internal/intents"
	"github.com/angelmondragon/storewise-backend/pkg/logger"
)

// IntentDispatch runs one typed intent from the register UI.
func IntentDispatch(d *intents.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req intents.Request
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := d.Dispatch(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
