package responses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/angelmondragon/storewise-backend/pkg/logger"
	"github.com/angelmondragon/storewise-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessStatus(w, http.StatusCreated, map[string]string{"id": "P006"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"id":"P006"}}`, w.Body.String())
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.InvalidInput("bad input").WithDetails(map[string]string{"price": "must be 0 or more"})
	WriteError(context.Background(), logger.Nop(), w, err)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, string(pkgerrors.CodeValidation), body.Error.Code)
	assert.Equal(t, "bad input", body.Error.Message)
	assert.NotNil(t, body.Error.Details)
}

func TestWriteErrorStatuses(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{pkgerrors.NotFound("product P404 not found"), http.StatusNotFound, "product P404 not found"},
		{pkgerrors.EmptyCart(), http.StatusUnprocessableEntity, "cart is empty"},
		{pkgerrors.ImportFormat(errors.New("unexpected EOF")), http.StatusBadRequest, "invalid file format"},
		{pkgerrors.New(pkgerrors.CodeConfirmationRequired, "import replaces all data"), http.StatusPreconditionRequired, "import replaces all data"},
		{fmt.Errorf("wrapped: %w", pkgerrors.New(pkgerrors.CodeConflict, "barcode in use")), http.StatusConflict, "barcode in use"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		WriteError(context.Background(), nil, w, tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())

		var body types.ErrorEnvelope
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, tc.message, body.Error.Message)
	}
}

func TestWriteErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), logger.Nop(), w, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, string(pkgerrors.CodeInternal), body.Error.Code)
	assert.Equal(t, "internal server error", body.Error.Message)
	assert.Nil(t, body.Error.Details)
	assert.True(t, body.Error.Retryable)
}

func TestWriteErrorMarksRetryableCodes(t *testing.T) {
	cases := map[pkgerrors.Code]bool{
		pkgerrors.CodeDependency: true,
		pkgerrors.CodeValidation: false,
		pkgerrors.CodeEmptyCart:  false,
	}
	for code, want := range cases {
		w := httptest.NewRecorder()
		WriteError(context.Background(), nil, w, pkgerrors.New(code, "x"))

		var raw map[string]map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&raw))
		_, present := raw["error"]["retryable"]
		assert.Equal(t, want, present, string(code))
	}
}
