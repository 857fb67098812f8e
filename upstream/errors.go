package upstream

import (
	"errors"
	"fmt"
)

// ErrUnauthorized means the backend rejected the caller's bearer token. The
// HTTP layer turns it into a 401 with a login notice.
var ErrUnauthorized = errors.New("upstream: credenciais rejeitadas")

// GenericMessage is shown when the backend gives no usable error message
// (5xx responses and transport failures)
const GenericMessage = "Não foi possível completar a operação. Tente novamente."

// APIError is an upstream HTTP failure. For 4xx responses Message carries
// the backend's message verbatim; otherwise it is GenericMessage. A zero
// StatusCode means the request never reached the backend.
type APIError struct {
	StatusCode int
	Message    string
}

// Error ...
func (e *APIError) Error() string {
	return fmt.Sprintf("upstream: status=%d %s", e.StatusCode, e.Message)
}

// AsAPIError ...
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsClientError reports whether the backend rejected the request itself
// (4xx other than authentication)
func IsClientError(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
}
