package youtube

import (
	"errors"
	"fmt"
)

// sentinel errors of provider calls
var (
	ErrInvalidCredential = errors.New("youtube: api key is not valid")
	ErrQuotaExceeded     = errors.New("youtube: quota exceeded")
	ErrMissingCredential = fmt.Errorf("youtube: api key is missing: %w", ErrInvalidCredential)
)

// APIError is a failed provider call other than credential and quota failures
type APIError struct {
	Endpoint string
	Status   int // zero for transport failures
	Message  string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("youtube: %s: %s", e.Endpoint, e.Message)
	}
	return fmt.Sprintf("youtube: %s: http %d: %s", e.Endpoint, e.Status, e.Message)
}

// IsCredentialError reports whether err means the stored api key can't be used,
// either because it is missing or invalid or because its quota is used up
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrInvalidCredential) || errors.Is(err, ErrQuotaExceeded)
}
