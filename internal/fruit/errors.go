package fruit

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEngine is returned when the registry holds no engine reference.
	ErrNoEngine = errors.New("fruit: no compute engine")
	// ErrInvalidQuantity guards the unit price derivation.
	ErrInvalidQuantity = errors.New("fruit: quantity must be positive")
	// ErrNotPriced means the engine answered, but the fruit is unknown or costs nothing.
	ErrNotPriced = errors.New("fruit: fruit not found or price is 0")
	// ErrCartEmpty is returned for a receipt on an empty cart.
	ErrCartEmpty = errors.New("fruit: shopping cart is empty")
)

// RemoteError is the single remote communication failure kind.
// It covers both the name lookup and every forwarded call.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Remote wraps err as a *RemoteError for op. A nil err stays nil.
func Remote(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return err
	}
	return &RemoteError{Op: op, Err: err}
}

// IsRemote reports whether err is a remote communication failure.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
