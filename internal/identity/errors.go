package identity

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when the provider rejects a bearer token,
// is unreachable, or returns claims without a subject. Callers must not
// distinguish these cases in anything they surface to API clients.
var ErrUnauthenticated = errors.New("token could not be validated")

// ProviderError wraps a failed administrative call to the identity provider.
type ProviderError struct {
	Op     string
	Status int
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("identity provider %s failed: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("identity provider %s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
