package types

import "github.com/pkg/errors"

var (
	ErrWalletUnavailable             = errors.New("wallet provider not available")
	ErrWalletRequestRejected         = errors.New("wallet request rejected")
	ErrMissingAmount                 = errors.New("amount is required")
	ErrQuoteRequestFailed            = errors.New("quote request failed")
	ErrUnexpectedQuoteShape          = errors.New("unexpected quote response shape")
	ErrQuoteSuperseded               = errors.New("quote superseded by a newer request")
	ErrConfirmationWithoutSimulation = errors.New("no simulation to confirm")
	ErrSigningUnavailable            = errors.New("signer not available")
)

// kindError tags cause with one of the sentinel kinds above while keeping
// cause in the chain, so errors.Is matches both.
type kindError struct {
	kind  error
	cause error
}

func (e *kindError) Error() string { return e.kind.Error() + ": " + e.cause.Error() }

func (e *kindError) Is(target error) bool { return target == e.kind }

func (e *kindError) Unwrap() error { return e.cause }

func (e *kindError) Cause() error { return e.cause }

// WithKind tags err with kind. It returns nil when err is nil.
func WithKind(kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, cause: err}
}

// QuoteFailed tags err as a quote failure
func QuoteFailed(err error) error {
	return WithKind(ErrQuoteRequestFailed, err)
}
