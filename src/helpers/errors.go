package helpers

import "fmt"

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type StockDigestError struct {
	Message string
	Cause   error
}

func (e *StockDigestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StockDigestError) Unwrap() error {
	return e.Cause
}

// -----------------------------------------------------------------------------

// ConfigurationError: missing required settings at startup. Fatal; the process
// must exit non-zero before serving traffic.
type ConfigurationError struct{ StockDigestError }

func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{StockDigestError{Message: fmt.Sprintf(format, args...)}}
}

// -----------------------------------------------------------------------------

// BackendUnavailableError: the durable backend could not be reached. Non-fatal;
// the watchlist store falls back to the env-file backend.
type BackendUnavailableError struct {
	StockDigestError
	Backend string
}

func NewBackendUnavailableError(backend string, cause error) *BackendUnavailableError {
	return &BackendUnavailableError{
		StockDigestError: StockDigestError{Message: fmt.Sprintf("%s backend unavailable", backend), Cause: cause},
		Backend:          backend,
	}
}

// -----------------------------------------------------------------------------

// ProviderError: a per-symbol external fetch failure. Recorded inline in the
// data, never aborts a batch.
type ProviderError struct {
	StockDigestError
	Provider string
	Symbol   string
}

func NewProviderError(provider, symbol string, cause error) *ProviderError {
	return &ProviderError{
		StockDigestError: StockDigestError{Message: fmt.Sprintf("%s fetch failed for %s", provider, symbol), Cause: cause},
		Provider:         provider,
		Symbol:           symbol,
	}
}

// -----------------------------------------------------------------------------

// DeliveryError: the email transport failed. Recorded in RunStatus; the next
// scheduled tick is the retry mechanism.
type DeliveryError struct{ StockDigestError }

func NewDeliveryError(cause error) *DeliveryError {
	return &DeliveryError{StockDigestError{Message: "email delivery failed", Cause: cause}}
}
