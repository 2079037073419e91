package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/angelmondragon/storewise-backend/api/responses"
	"github.com/angelmondragon/storewise-backend/api/validators"
	"github.com/angelmondragon/storewise-backend/internal/backup"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/angelmondragon/storewise-backend/pkg/logger"
)

// BackupExport downloads the whole store as a JSON attachment.
func BackupExport(svc backup.Service, now func() time.Time, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		export, err := svc.Export(r.Context(), now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(export.Body); err != nil && logg != nil {
			logg.Error(r.Context(), "write backup export", err)
		}
	}
}

// BackupImport replaces the store from an uploaded backup. The raw file is
// the request body and ?confirm=true acknowledges the replacement.
func BackupImport(svc backup.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		confirmed, err := validators.ParseQueryBool(r, "confirm")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.ImportFormat(err).WithDetails(map[string]any{"max_bytes": maxBytes}))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read import body"))
			return
		}

		result, err := svc.Import(r.Context(), raw, confirmed)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
