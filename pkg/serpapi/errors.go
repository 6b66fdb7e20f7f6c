package serpapi

import (
	"errors"
	"fmt"
)

// ConfigError reports missing or invalid client configuration (typically an
// absent API key). It is never retried and never triggers a fallback:
// retrying without credentials cannot succeed.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "serpapi: config: " + e.Reason
}

// ProviderError reports a non-success HTTP response from the provider,
// carrying the status and response body for diagnosis.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("serpapi: provider status %d: %s", e.Status, e.Body)
}

// TransportError reports a network-level failure (timeout, connection reset,
// DNS) before any provider response was received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "serpapi: transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsFallbackable reports whether the error is one the structured path may
// transparently recover from by falling back to the raw markup path.
// Provider and transport failures qualify; configuration errors never do.
func IsFallbackable(err error) bool {
	if err == nil {
		return false
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return false
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return true
	}
	var te *TransportError
	return errors.As(err, &te)
}
