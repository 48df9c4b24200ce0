package commons

import "github.com/pkg/errors"

var ErrRecordNotFound = errors.New("Record not found")

var (
	ErrInvalidAmount        = errors.New("Invalid amount")
	ErrNotFound             = errors.New("Account not found")
	ErrInsufficientFunds    = errors.New("Insufficient balance")
	ErrSameAccount          = errors.New("Cannot send money to the same account")
	ErrSameTypeSelfTransfer = errors.New("Cannot transfer money between accounts of the same type for the same user")
	ErrInvalidAccountType   = errors.New("Invalid account type. Must be 'CHECKING' or 'SAVINGS'")
	ErrAccountLimitExceeded = errors.New("Account limit reached")
	ErrForbidden            = errors.New("Forbidden")
	ErrValidation           = errors.New("Validation failed")
	ErrUserExists           = errors.New("Username already exists")
	ErrUnauthorized         = errors.New("Invalid credentials")
	ErrTransient            = errors.New("Temporary failure, retry the operation")
)

var validationErrors = []error{
	ErrInvalidAmount,
	ErrNotFound,
	ErrInsufficientFunds,
	ErrSameAccount,
	ErrSameTypeSelfTransfer,
	ErrInvalidAccountType,
	ErrAccountLimitExceeded,
	ErrForbidden,
	ErrValidation,
	ErrUserExists,
	ErrUnauthorized,
}

// IsValidationError reports whether err belongs to the business error taxonomy,
// as opposed to an infrastructure failure.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type transientError struct {
	cause error
}

func (e *transientError) Error() string {
	return ErrTransient.Error() + ": " + e.cause.Error()
}

func (e *transientError) Unwrap() error { return e.cause }

func (e *transientError) Is(target error) bool { return target == ErrTransient }

// Transient marks an unexpected store failure. The cause stays reachable through
// errors.Is / errors.As.
func Transient(err error) error {
	if err == nil || errors.Is(err, ErrTransient) {
		return err
	}
	return &transientError{cause: err}
}

// Classify keeps business errors as they are and turns everything else into a
// transient failure.
func Classify(err error) error {
	if err == nil || IsValidationError(err) {
		return err
	}
	return Transient(err)
}

// Validationf returns an ErrValidation carrying a caller-facing message.
func Validationf(format string, args ...any) error {
	return errors.Wrapf(ErrValidation, format, args...)
}
