package services

import "bikefood/models"

// Intent names one user or system action submitted to the coordinator.
type Intent string

const (
	// System / session
	IntentSplashDone Intent = "splash_done" // fired by the splash timer
	IntentLogin      Intent = "login"
	IntentLogout     Intent = "logout"
	IntentSwitchMode Intent = "switch_mode"

	// Navigation
	IntentGoHome       Intent = "go_home"
	IntentOpenProfile  Intent = "open_profile"
	IntentOpenOrders   Intent = "open_orders"
	IntentOpenMenu     Intent = "open_menu"
	IntentOpenCart     Intent = "open_cart"
	IntentOpenTracking Intent = "open_tracking"
	IntentOpenDelivery Intent = "open_delivery"
	IntentOpenChat     Intent = "open_chat"
	IntentCloseChat    Intent = "close_chat"

	// Customer
	IntentSelectRestaurant Intent = "select_restaurant"
	IntentAddItem          Intent = "add_item"
	IntentSetQuantity      Intent = "set_quantity"
	IntentRequestCourier   Intent = "request_courier"
	IntentConfirmReceipt   Intent = "confirm_receipt"
	IntentCancelOrder      Intent = "cancel_order"

	// Courier
	IntentAcceptOffer   Intent = "accept_offer"
	IntentDeclineOffer  Intent = "decline_offer"
	IntentConfirmPickup Intent = "confirm_pickup"

	// Async events from collaborators
	IntentCourierFound Intent = "courier_found"

	// Chat
	IntentSendMessage Intent = "send_message"
)

// Payload carries the optional arguments an intent needs; unused fields
// stay zero. The coordinator validates presence per intent.
type Payload struct {
	RestaurantID string
	ItemID       string
	Quantity     int
	PeerID       string
	Courier      *models.CourierRef
	Mode         string
	Text         string
}
