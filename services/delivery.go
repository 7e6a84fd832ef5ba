package services

import (
	"github.com/shopspring/decimal"

	"bikefood/models"
)

// Delivery statuses, courier side. These are projections of the order
// status, never stored independently. accepted and awaiting_pickup share
// the en_route_pickup order status: accepting the offer is the transition,
// awaiting_pickup is the steady state until the food is collected.
const (
	DeliveryStatusOffered        = "offered"
	DeliveryStatusAccepted       = "accepted"
	DeliveryStatusDeclined       = "declined"
	DeliveryStatusAwaitingPickup = "awaiting_pickup"
	DeliveryStatusInTransit      = "in_transit"
	DeliveryStatusCompleted      = "completed"
)

// DeliveryTask is the courier's read-only view of an order. Derived on
// demand; declined or cancelled tasks are discarded, never persisted.
type DeliveryTask struct {
	OrderID string
	Pickup  models.Address
	Dropoff models.Address
	Payment decimal.Decimal
	Status  string
}

// DeliveryStatusForOrder projects an order status onto the courier's
// delivery status. ok is false when no task exists for the order: the
// shopping phase, or a cancelled order whose task has been discarded.
func DeliveryStatusForOrder(orderStatus string) (string, bool) {
	switch orderStatus {
	case OrderStatusFindingCourier, OrderStatusAssigned:
		return DeliveryStatusOffered, true
	case OrderStatusEnRoutePickup:
		return DeliveryStatusAwaitingPickup, true
	case OrderStatusPickedUp, OrderStatusDelivering:
		return DeliveryStatusInTransit, true
	case OrderStatusDelivered:
		return DeliveryStatusCompleted, true
	}
	return "", false
}

// DeliveryTaskForOrder builds the courier-side task for an order. The
// payment shown to the courier is the delivery fee.
func DeliveryTaskForOrder(o *Order, pickup, dropoff models.Address) (DeliveryTask, bool) {
	status, ok := DeliveryStatusForOrder(o.Status)
	if !ok {
		return DeliveryTask{}, false
	}
	return DeliveryTask{
		OrderID: o.OrderID,
		Pickup:  pickup,
		Dropoff: dropoff,
		Payment: o.DeliveryFee,
		Status:  status,
	}, true
}
