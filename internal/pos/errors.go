package pos

import "errors"

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrLineNotFound         = errors.New("cart line not found")
	ErrQuantityExceedsStock = errors.New("quantity exceeds available stock")
	ErrCartNotEmpty         = errors.New("cart is not empty")

	ErrNoEmployee = errors.New("no employee bound to session")

	ErrNoActiveShift        = errors.New("no active shift")
	ErrShiftAlreadyOpen     = errors.New("an open shift already exists for this outlet")
	ErrNegativeStartingCash = errors.New("starting cash must be >= 0")

	ErrUnbalancedSplit = errors.New("payment amounts do not sum to amount due")
	ErrInvalidPayment  = errors.New("payment amount must be positive")

	ErrHeldOrderNotFound = errors.New("held order not found")
	ErrHeldOrderClosed   = errors.New("held order is already completed or deleted")
)
