package orders

import (
	"github.com/foodheaven/storefront-backend/pkg/enums"
	pkgerrors "github.com/foodheaven/storefront-backend/pkg/errors"
)

// NextStatus returns the default follow-up for the back-office "advance"
// action: New → Processing → Delivered → New, restarting the cycle.
// Cancelled has no default; leaving it always requires an explicit target.
func NextStatus(current enums.OrderStatus) (enums.OrderStatus, bool) {
	switch current {
	case enums.OrderStatusNew:
		return enums.OrderStatusProcessing, true
	case enums.OrderStatusProcessing:
		return enums.OrderStatusDelivered, true
	case enums.OrderStatusDelivered:
		return enums.OrderStatusNew, true
	default:
		return "", false
	}
}

// ValidateTransition enforces the order status machine. Cancelled is a
// side-state: it can be entered from New or Processing, and once entered
// it only accepts an explicitly confirmed New (or a confirmed Cancelled
// re-entry); every other input is rejected with the state unchanged.
func ValidateTransition(from, to enums.OrderStatus, confirmed bool) error {
	if !from.IsValid() {
		return pkgerrors.New(pkgerrors.CodeInternal, "order has unknown status")
	}
	if !to.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid target status")
	}

	if from == enums.OrderStatusCancelled {
		if to != enums.OrderStatusNew && to != enums.OrderStatusCancelled {
			return transitionConflict(from, to, "cancelled orders only accept new or cancelled")
		}
		if !confirmed {
			return transitionConflict(from, to, "leaving cancelled requires confirmation")
		}
		return nil
	}

	if to == enums.OrderStatusCancelled {
		switch from {
		case enums.OrderStatusNew, enums.OrderStatusProcessing:
			return nil
		default:
			return transitionConflict(from, to, "delivered orders cannot be cancelled")
		}
	}

	next, ok := NextStatus(from)
	if !ok || next != to {
		return transitionConflict(from, to, "transition not in the status cycle")
	}
	return nil
}

func transitionConflict(from, to enums.OrderStatus, reason string) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition disallowed").
		WithDetails(map[string]string{
			"from":   string(from),
			"to":     string(to),
			"reason": reason,
		})
}
