package fx

import "errors"

var (
	// ErrUnexpectedStatus indicates a non-200 response from a provider.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrMalformedResponse indicates a body that does not have the provider's known shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrMissingField indicates that the rate field is absent from the response.
	ErrMissingField = errors.New("rate field missing from response")
	// ErrNotNumeric indicates that the rate field is not a number.
	ErrNotNumeric = errors.New("rate is not numeric")
	// ErrProviderPanic indicates that a provider panicked while quoting.
	ErrProviderPanic = errors.New("provider panicked")
	// ErrUnknownProvider indicates a provider ID that is not registered.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrNoProviders indicates an empty provider selection.
	ErrNoProviders = errors.New("no providers selected")
)
