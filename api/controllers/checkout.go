package controllers

import (
	"net/http"

	"github.com/angelmondragon/storewise-backend/api/responses"
	"github.com/angelmondragon/storewise-backend/api/validators"
	"github.com/angelmondragon/storewise-backend/internal/checkout"
	"github.com/angelmondragon/storewise-backend/pkg/logger"
)

type confirmPaymentRequest struct {
	PaymentMethod string `json:"payment_method"`
	CustomerName  string `json:"customer_name" validate:"max=120"`
}

func CheckoutStatus(svc checkout.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Status())
	}
}

func CheckoutReview(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := svc.Review(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

func CheckoutPayment(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prompt, err := svc.ProceedToPayment(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, prompt)
	}
}

// CheckoutConfirm posts the sale once the operator confirms payment.
func CheckoutConfirm(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload confirmPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		receipt, err := svc.CompletePayment(r.Context(), checkout.PaymentInput{
			PaymentMethod: payload.PaymentMethod,
			CustomerName:  payload.CustomerName,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}

func CheckoutCancel(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := svc.Cancel(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
