// Package errs holds the error taxonomy shared by the engine components.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInvalidPromo         = errors.New("invalid promo code")
	ErrPendingRequestExists = errors.New("pending coin request exists")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrAlreadyResolved      = errors.New("already resolved")
	ErrNotFound             = errors.New("not found")
	ErrPromoExists          = errors.New("promo code already exists")
	ErrTransportFailure     = errors.New("transport failure")
	ErrDeliveryTimeTooSoon  = errors.New("delivery time too soon")
	ErrInvalidDeliveryTime  = errors.New("invalid delivery time")
	ErrMalformedAmount      = errors.New("malformed amount")
	ErrDuplicateOrder       = errors.New("order already placed for this checkout")
)

// ValidationError is a user-correctable input error. Key names the message
// the current prompt is re-displayed with.
type ValidationError struct {
	Key string
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed (%s): %v", e.Key, e.Err)
	}
	return fmt.Sprintf("validation failed (%s)", e.Key)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func Validation(key string) error {
	return &ValidationError{Key: key}
}

func ValidationWrap(key string, err error) error {
	return &ValidationError{Key: key, Err: err}
}

// AsValidation reports whether err is a ValidationError and returns it.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
