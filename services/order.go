package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bikefood/models"
)

// Order statuses, customer side. browsing and cart_open cover the shopping
// phase before the order is placed; the draft gets its id and line snapshot
// when it moves to finding_courier.
const (
	OrderStatusBrowsing       = "browsing"
	OrderStatusCartOpen       = "cart_open"
	OrderStatusFindingCourier = "finding_courier"
	OrderStatusAssigned       = "assigned"
	OrderStatusEnRoutePickup  = "en_route_pickup"
	OrderStatusPickedUp       = "picked_up"
	OrderStatusDelivering     = "delivering"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// IsTerminalStatus reports whether no further transitions are possible.
func IsTerminalStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}

// ValidStatusTransition reports whether an order may move from one status
// to another. Cancel is allowed from any non-terminal status; everything
// else advances one step along the delivery flow.
func ValidStatusTransition(from, to string) bool {
	if to == OrderStatusCancelled {
		return from != "" && !IsTerminalStatus(from)
	}
	switch from {
	case OrderStatusBrowsing:
		return to == OrderStatusCartOpen
	case OrderStatusCartOpen:
		return to == OrderStatusFindingCourier
	case OrderStatusFindingCourier:
		return to == OrderStatusAssigned
	case OrderStatusAssigned:
		return to == OrderStatusEnRoutePickup
	case OrderStatusEnRoutePickup:
		return to == OrderStatusPickedUp
	case OrderStatusPickedUp:
		return to == OrderStatusDelivering
	case OrderStatusDelivering:
		return to == OrderStatusDelivered
	}
	return false
}

// Order is the single active order of a session. Customer and courier
// screens are read projections of it; every status change goes through
// Transition so the two sides can never diverge.
type Order struct {
	OrderID      string
	RestaurantID string
	Lines        []models.CartLine
	Status       string
	Courier      *models.CourierRef
	DeliveryFee  decimal.Decimal
	CreatedAt    time.Time
}

// NewOrder starts a fresh draft in the browsing phase.
func NewOrder() *Order {
	return &Order{Status: OrderStatusBrowsing}
}

// Transition moves the order to a new status after table validation; the
// order is unchanged on error. Cancelling an already cancelled order is a
// no-op, not an error.
func (o *Order) Transition(to string) error {
	if to == OrderStatusCancelled && o.Status == OrderStatusCancelled {
		return nil
	}
	if !ValidStatusTransition(o.Status, to) {
		return fmt.Errorf("order status %s -> %s: %w", o.Status, to, ErrInvalidTransition)
	}
	o.Status = to
	return nil
}

// Place stamps identity onto the draft and snapshots the cart, moving the
// order to finding_courier. The restaurant and lines are immutable from
// here on. Fails with InvalidArgument when the cart is empty.
func (o *Order) Place(restaurantID string, cart *Cart, deliveryFee decimal.Decimal) error {
	if cart.Size() == 0 {
		return fmt.Errorf("place order with empty cart: %w", ErrInvalidArgument)
	}
	if err := o.Transition(OrderStatusFindingCourier); err != nil {
		return err
	}
	o.OrderID = uuid.NewString()
	o.RestaurantID = restaurantID
	o.Lines = cart.Lines()
	o.DeliveryFee = deliveryFee
	o.CreatedAt = time.Now()
	return nil
}

// AssignCourier records the matched courier and moves to assigned.
func (o *Order) AssignCourier(courier models.CourierRef) error {
	if err := o.Transition(OrderStatusAssigned); err != nil {
		return err
	}
	c := courier
	o.Courier = &c
	return nil
}

// Subtotal is the sum over the snapshotted lines.
func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range o.Lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	return sum
}

// GrandTotal is the line subtotal plus the delivery fee.
func (o *Order) GrandTotal() decimal.Decimal {
	return o.Subtotal().Add(o.DeliveryFee)
}

// Archived converts a terminal order into its archive row.
func (o *Order) Archived() models.ArchivedOrder {
	return models.ArchivedOrder{
		OrderID:      o.OrderID,
		RestaurantID: o.RestaurantID,
		Status:       o.Status,
		GrandTotal:   o.GrandTotal(),
		CreatedAt:    o.CreatedAt,
		ClosedAt:     time.Now(),
	}
}
