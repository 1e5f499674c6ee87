package ddns

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// APIError is one entry of the provider's error list.
type APIError struct {
	Code       int        `json:"code"`
	Message    string     `json:"message"`
	ErrorChain []APIError `json:"error_chain,omitempty"`
}

func (e APIError) String() string {
	s := fmt.Sprintf("[%d] %s", e.Code, e.Message)
	if len(e.ErrorChain) > 0 {
		s += " (" + joinAPIErrors(e.ErrorChain) + ")"
	}
	return s
}

func joinAPIErrors(errs []APIError) string {
	if len(errs) == 0 {
		return "unknown error"
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.String())
	}
	return strings.Join(msgs, "; ")
}

// ProviderError is returned when the provider answered with success=false.
type ProviderError struct {
	Provider   string
	Op         string
	StatusCode int
	Errors     []APIError
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s failed (http %d): %s", e.Provider, e.Op, e.StatusCode, joinAPIErrors(e.Errors))
}

// NetworkError wraps transport failures and unreadable responses.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
