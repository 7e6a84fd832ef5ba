package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bikefood/models"
)

// Auth validates a login attempt. Credential handling lives outside the
// core; a false return means "stay on the login screen".
type Auth interface {
	Login() bool
}

type allowAll struct{}

func (allowAll) Login() bool { return true }

// Coordinator is the single source of truth for one session: it owns the
// session aggregate and the canonical order lifecycle, and routes every
// mutation intent. One mutex serializes intents, so each one is processed
// to completion before the next and no two transitions can race on the
// same order.
type Coordinator struct {
	mu      sync.Mutex
	session *Session
	order   *Order // canonical lifecycle; survives mode switches
	router  *Router
	catalog *Catalog
	chat    *ChatLog
	archive OrderArchive
	auth    Auth

	deliveryFee decimal.Decimal
	splashDelay time.Duration
	dropoff     models.Address

	onOrderPlaced func(orderID string) // dispatch/matching hook
	onChange      func(Snapshot)      // presentation re-render hook
}

// NewCoordinator wires the coordinator to its collaborators. archive may
// be nil when no order history is kept.
func NewCoordinator(catalog *Catalog, chat *ChatLog, archive OrderArchive, deliveryFee decimal.Decimal, splashDelay time.Duration) *Coordinator {
	session := NewSession()
	return &Coordinator{
		session:     session,
		order:       session.Order,
		router:      &Router{},
		catalog:     catalog,
		chat:        chat,
		archive:     archive,
		auth:        allowAll{},
		deliveryFee: deliveryFee,
		splashDelay: splashDelay,
		dropoff:     models.Address{Label: "Home", Line: "22 Borrowdale Road, Harare"},
	}
}

// SetAuth plugs in the external auth collaborator.
func (c *Coordinator) SetAuth(a Auth) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auth = a
}

// SetOnOrderPlaced registers the matching collaborator's hook; it runs on
// its own goroutine after the order reaches finding_courier.
func (c *Coordinator) SetOnOrderPlaced(fn func(orderID string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onOrderPlaced = fn
}

// SetDropoff sets the customer's delivery address shown to couriers.
func (c *Coordinator) SetDropoff(a models.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropoff = a
}

// Start arms the splash auto-advance. The timer dispatches splash_done
// like any other intent; if the user has navigated away by then the
// dispatch is rejected and the screen stays put.
func (c *Coordinator) Start() {
	c.router.ArmSplash(c.splashDelay, func() {
		if _, err := c.Dispatch(IntentSplashDone, Payload{}); err != nil {
			log.Printf("splash timer: %v", err)
		}
	})
}

// SetOnChange registers a hook called with the new snapshot after every
// successful intent. Presentation layers use it to re-render on async
// events (splash timer, courier found) as well as direct input.
func (c *Coordinator) SetOnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Dispatch applies one intent and returns the resulting snapshot. On
// error the snapshot is the unchanged state: intents apply fully or not
// at all.
func (c *Coordinator) Dispatch(intent Intent, p Payload) (Snapshot, error) {
	c.mu.Lock()
	err := c.apply(intent, p)
	snap := c.snapshot()
	cb := c.onChange
	c.mu.Unlock()
	if err == nil && cb != nil {
		cb(snap)
	}
	return snap, err
}

// DispatchEvent is Dispatch for collaborators that only care about the
// error (async callbacks like courier_found).
func (c *Coordinator) DispatchEvent(intent Intent, p Payload) error {
	_, err := c.Dispatch(intent, p)
	return err
}

// Snapshot returns the current state without mutating anything.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Coordinator) apply(intent Intent, p Payload) error {
	s := c.session
	switch intent {
	case IntentSplashDone, IntentLogout, IntentGoHome, IntentOpenProfile,
		IntentOpenOrders, IntentOpenTracking, IntentOpenDelivery:
		return c.route(intent, p)

	case IntentLogin:
		if s.Screen.Kind != ScreenLogin {
			return fmt.Errorf("login from %s: %w", s.Screen.Kind, ErrInvalidTransition)
		}
		if !c.auth.Login() {
			return nil // auth collaborator rejected: stay on login
		}
		return c.route(intent, p)

	case IntentSwitchMode:
		if p.Mode == "" {
			return fmt.Errorf("switch_mode needs a mode: %w", ErrMissingPayload)
		}
		if err := s.SwitchMode(p.Mode); err != nil {
			return err
		}
		c.router.CancelSplash()
		return nil

	case IntentSelectRestaurant:
		if p.RestaurantID == "" {
			return fmt.Errorf("select_restaurant needs a restaurant: %w", ErrMissingPayload)
		}
		if _, err := c.catalog.Restaurant(p.RestaurantID); err != nil {
			return err
		}
		if err := c.route(intent, p); err != nil {
			return err
		}
		s.SelectedRestaurantID = p.RestaurantID
		return nil

	case IntentOpenMenu:
		p.RestaurantID = s.SelectedRestaurantID
		return c.route(intent, p)

	case IntentAddItem:
		item, err := c.catalog.MenuItem(p.ItemID)
		if err != nil {
			return err
		}
		s.Cart.AddItem(item)
		return nil

	case IntentSetQuantity:
		return s.Cart.SetQuantity(p.ItemID, p.Quantity)

	case IntentOpenCart:
		if s.Cart.Size() == 0 {
			return fmt.Errorf("open empty cart: %w", ErrInvalidArgument)
		}
		c.ensureDraft()
		if c.order.Status == OrderStatusBrowsing {
			if err := c.order.Transition(OrderStatusCartOpen); err != nil {
				return err
			}
		}
		return c.route(intent, p)

	case IntentRequestCourier:
		if s.Cart.Size() == 0 {
			return fmt.Errorf("request courier with empty cart: %w", ErrInvalidArgument)
		}
		c.ensureDraft()
		if err := c.order.Place(s.SelectedRestaurantID, s.Cart, c.deliveryFee); err != nil {
			return err
		}
		s.Cart.Clear()
		s.Order = c.order
		if err := c.route(intent, p); err != nil {
			return err
		}
		if c.onOrderPlaced != nil {
			go c.onOrderPlaced(c.order.OrderID)
		}
		return nil

	case IntentCourierFound:
		if p.Courier == nil {
			return fmt.Errorf("courier_found needs a courier: %w", ErrMissingPayload)
		}
		if err := c.order.AssignCourier(*p.Courier); err != nil {
			return err
		}
		// Move the customer off the searching screen; anywhere else the
		// status update is enough.
		if s.Mode == ModeCustomer && s.Screen.Kind == ScreenFindBiker {
			return c.route(intent, p)
		}
		return nil

	case IntentAcceptOffer:
		if err := c.order.Transition(OrderStatusEnRoutePickup); err != nil {
			return err
		}
		if s.Mode == ModeBiker {
			return c.route(intent, p)
		}
		return nil

	case IntentDeclineOffer:
		// Declining never touches order state; the matching collaborator
		// re-offers to another courier.
		return nil

	case IntentConfirmPickup:
		if err := c.order.Transition(OrderStatusPickedUp); err != nil {
			return err
		}
		// In transit follows automatically once the food is collected.
		return c.order.Transition(OrderStatusDelivering)

	case IntentConfirmReceipt:
		if err := c.order.Transition(OrderStatusDelivered); err != nil {
			return err
		}
		c.archiveOrder()
		return nil

	case IntentCancelOrder:
		wasCancelled := c.order.Status == OrderStatusCancelled
		if err := c.order.Transition(OrderStatusCancelled); err != nil {
			return err
		}
		if !wasCancelled && c.order.OrderID != "" {
			c.archiveOrder()
		}
		if s.Screen.Kind == ScreenFindBiker || s.Screen.Kind == ScreenOrderTracking {
			return c.route(intent, p)
		}
		return nil

	case IntentOpenChat:
		if p.PeerID == "" {
			return fmt.Errorf("chat needs a peer: %w", ErrMissingPayload)
		}
		if err := c.route(intent, p); err != nil {
			return err
		}
		s.ChatPeerID = p.PeerID
		return nil

	case IntentCloseChat:
		if err := c.route(intent, p); err != nil {
			return err
		}
		s.ChatPeerID = ""
		return nil

	case IntentSendMessage:
		if s.ChatPeerID == "" {
			return fmt.Errorf("send_message outside a chat: %w", ErrMissingPayload)
		}
		if p.Text == "" {
			return fmt.Errorf("empty message: %w", ErrInvalidArgument)
		}
		c.chat.Send(s.ChatPeerID, true, p.Text)
		return nil
	}
	return fmt.Errorf("intent %q: %w", intent, ErrNotFound)
}

// route moves the session to the screen NextScreen decides and kills any
// pending splash timer, since the user is no longer where it was armed.
func (c *Coordinator) route(intent Intent, p Payload) error {
	next, err := NextScreen(c.session.Screen, c.session.Mode, intent, p)
	if err != nil {
		return err
	}
	c.session.Screen = next
	c.router.CancelSplash()
	return nil
}

// ensureDraft starts a fresh lifecycle after the previous order finished,
// and reattaches the visible order in customer mode.
func (c *Coordinator) ensureDraft() {
	if c.order == nil || IsTerminalStatus(c.order.Status) {
		c.order = NewOrder()
	}
	if c.session.Mode == ModeCustomer {
		c.session.Order = c.order
	}
}

func (c *Coordinator) archiveOrder() {
	if c.archive == nil || c.order.OrderID == "" {
		return
	}
	row := c.order.Archived()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.archive.Record(ctx, row); err != nil {
			log.Printf("archive order %s: %v", row.OrderID, err)
		}
	}()
}

// OrderView is the customer-facing read projection of the active order.
type OrderView struct {
	OrderID      string
	RestaurantID string
	Status       string
	Courier      *models.CourierRef
	Lines        []models.CartLine
	Subtotal     decimal.Decimal
	DeliveryFee  decimal.Decimal
	GrandTotal   decimal.Decimal
	CreatedAt    time.Time
}

// Snapshot is an immutable copy of session state handed to presentation.
// Screens render from it and never reach into the coordinator's state.
type Snapshot struct {
	Screen               Screen
	Mode                 string
	SelectedRestaurantID string
	ChatPeerID           string
	CartLines            []models.CartLine
	CartSubtotal         decimal.Decimal
	CartTotal            decimal.Decimal
	Order                *OrderView
	Delivery             *DeliveryTask // courier projection of the same lifecycle
}

func (c *Coordinator) snapshot() Snapshot {
	s := c.session
	snap := Snapshot{
		Screen:               s.Screen,
		Mode:                 s.Mode,
		SelectedRestaurantID: s.SelectedRestaurantID,
		ChatPeerID:           s.ChatPeerID,
		CartLines:            s.Cart.Lines(),
		CartSubtotal:         s.Cart.Subtotal(),
		CartTotal:            s.Cart.Total(c.deliveryFee),
	}
	if s.Order != nil && s.Order.OrderID != "" {
		var courier *models.CourierRef
		if s.Order.Courier != nil {
			cc := *s.Order.Courier
			courier = &cc
		}
		lines := make([]models.CartLine, len(s.Order.Lines))
		copy(lines, s.Order.Lines)
		snap.Order = &OrderView{
			OrderID:      s.Order.OrderID,
			RestaurantID: s.Order.RestaurantID,
			Status:       s.Order.Status,
			Courier:      courier,
			Lines:        lines,
			Subtotal:     s.Order.Subtotal(),
			DeliveryFee:  s.Order.DeliveryFee,
			GrandTotal:   s.Order.GrandTotal(),
			CreatedAt:    s.Order.CreatedAt,
		}
	}
	if c.order != nil && c.order.OrderID != "" {
		pickup := models.Address{}
		if r, err := c.catalog.Restaurant(c.order.RestaurantID); err == nil {
			pickup = models.Address{Label: r.Name, Line: r.Address}
		}
		if task, ok := DeliveryTaskForOrder(c.order, pickup, c.dropoff); ok {
			snap.Delivery = &task
		}
	}
	return snap
}
