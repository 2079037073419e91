package types

// SuccessEnvelope wraps every successful StoreWise response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client view of a pkg/errors code. Retryable marks failures
// where the same request may succeed later, such as Redis being down.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// HealthStatus is the body of the liveness and readiness probes.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
