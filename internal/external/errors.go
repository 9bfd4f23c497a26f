package external

import (
	"errors"
	"fmt"
	"net/http"
)

// Provider failure taxonomy shared by all rate clients. Callers classify
// with errors.Is; none of these is fatal to a polling loop.
var (
	ErrUnavailable = errors.New("provider unavailable")
	ErrAuth        = errors.New("provider rejected credentials")
	ErrRateLimited = errors.New("provider rate limit exceeded")
	ErrBadResponse = errors.New("provider returned unexpected payload")
)

// classifyStatus maps a non-2xx provider status to the taxonomy.
func classifyStatus(provider string, status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: status %d: %w", provider, status, ErrAuth)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: status %d: %w", provider, status, ErrRateLimited)
	default:
		return fmt.Errorf("%s: status %d: %w", provider, status, ErrBadResponse)
	}
}
