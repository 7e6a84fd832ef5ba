package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bikefood/models"
)

func newTestCoordinator(t *testing.T) (*Coordinator, *MemoryArchive) {
	t.Helper()
	archive := NewMemoryArchive()
	c := NewCoordinator(DemoCatalog(), NewChatLog(), archive,
		decimal.RequireFromString("2.99"), time.Hour)
	return c, archive
}

func mustDispatch(t *testing.T, c *Coordinator, intent Intent, p Payload) Snapshot {
	t.Helper()
	snap, err := c.Dispatch(intent, p)
	if err != nil {
		t.Fatalf("dispatch %s: %v", intent, err)
	}
	return snap
}

// toShopping walks a fresh coordinator to the customer home screen.
func toShopping(t *testing.T, c *Coordinator) {
	t.Helper()
	mustDispatch(t, c, IntentSplashDone, Payload{})
	mustDispatch(t, c, IntentLogin, Payload{})
}

func TestEndToEndOrderFlow(t *testing.T) {
	c, archive := newTestCoordinator(t)
	toShopping(t, c)

	snap := mustDispatch(t, c, IntentSelectRestaurant, Payload{RestaurantID: "1"})
	if snap.Screen.Kind != ScreenRestaurantMenu {
		t.Fatalf("screen = %s, want restaurant-menu", snap.Screen.Kind)
	}

	mustDispatch(t, c, IntentAddItem, Payload{ItemID: "m1"})
	snap = mustDispatch(t, c, IntentAddItem, Payload{ItemID: "m1"})
	if len(snap.CartLines) != 1 || snap.CartLines[0].Qty != 2 {
		t.Fatalf("cart = %+v, want one m1 line with qty 2", snap.CartLines)
	}
	if got := snap.CartSubtotal.StringFixed(2); got != "25.98" {
		t.Errorf("subtotal = %s, want 25.98", got)
	}

	mustDispatch(t, c, IntentOpenCart, Payload{})
	snap = mustDispatch(t, c, IntentRequestCourier, Payload{})
	if snap.Screen.Kind != ScreenFindBiker {
		t.Errorf("screen = %s, want find-biker", snap.Screen.Kind)
	}
	if snap.Order == nil || snap.Order.Status != OrderStatusFindingCourier {
		t.Fatalf("order = %+v, want finding_courier", snap.Order)
	}
	if len(snap.CartLines) != 0 {
		t.Errorf("cart not cleared after placing the order")
	}
	if snap.Delivery == nil || snap.Delivery.Status != DeliveryStatusOffered {
		t.Errorf("delivery projection = %+v, want offered", snap.Delivery)
	}

	courier := models.CourierRef{ID: "b1", Name: "James Moyo", Rating: 4.9}
	snap = mustDispatch(t, c, IntentCourierFound, Payload{Courier: &courier})
	if snap.Screen.Kind != ScreenOrderTracking {
		t.Errorf("screen = %s, want order-tracking", snap.Screen.Kind)
	}
	if snap.Order.Courier == nil || snap.Order.Courier.ID != "b1" {
		t.Errorf("courier = %+v, want b1", snap.Order.Courier)
	}

	snap = mustDispatch(t, c, IntentAcceptOffer, Payload{})
	if snap.Delivery.Status != DeliveryStatusAwaitingPickup {
		t.Errorf("delivery status = %s, want awaiting_pickup", snap.Delivery.Status)
	}

	snap = mustDispatch(t, c, IntentConfirmPickup, Payload{})
	if snap.Order.Status != OrderStatusDelivering {
		t.Errorf("status after pickup = %s, want delivering (in transit follows automatically)", snap.Order.Status)
	}
	if snap.Delivery.Status != DeliveryStatusInTransit {
		t.Errorf("delivery status = %s, want in_transit", snap.Delivery.Status)
	}

	snap = mustDispatch(t, c, IntentConfirmReceipt, Payload{})
	if snap.Order.Status != OrderStatusDelivered {
		t.Errorf("status = %s, want delivered", snap.Order.Status)
	}
	if snap.Delivery.Status != DeliveryStatusCompleted {
		t.Errorf("delivery status = %s, want completed", snap.Delivery.Status)
	}

	// the archive collaborator records the finished order asynchronously
	deadline := time.Now().Add(time.Second)
	for {
		recent, err := archive.Recent(context.Background(), 5)
		if err != nil {
			t.Fatal(err)
		}
		if len(recent) == 1 {
			if recent[0].Status != OrderStatusDelivered {
				t.Errorf("archived status = %s, want delivered", recent[0].Status)
			}
			if got := recent[0].GrandTotal.StringFixed(2); got != "28.97" {
				t.Errorf("archived total = %s, want 28.97", got)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("order never archived")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRequestCourierWithEmptyCartRejected(t *testing.T) {
	c, _ := newTestCoordinator(t)
	toShopping(t, c)
	mustDispatch(t, c, IntentSelectRestaurant, Payload{RestaurantID: "1"})
	mustDispatch(t, c, IntentAddItem, Payload{ItemID: "m1"})
	mustDispatch(t, c, IntentOpenCart, Payload{})
	mustDispatch(t, c, IntentSetQuantity, Payload{ItemID: "m1", Quantity: 0})

	before, _ := c.Dispatch(IntentRequestCourier, Payload{})
	_, err := c.Dispatch(IntentRequestCourier, Payload{})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	after := c.Snapshot()
	if after.Screen != before.Screen {
		t.Errorf("screen changed on rejected intent: %+v -> %+v", before.Screen, after.Screen)
	}
	if after.Order != nil && after.Order.Status == OrderStatusFindingCourier {
		t.Error("order placed despite empty cart")
	}
}

func TestPickupConfirmFromWrongStateRejected(t *testing.T) {
	c, _ := newTestCoordinator(t)
	toShopping(t, c)
	mustDispatch(t, c, IntentSelectRestaurant, Payload{RestaurantID: "1"})
	mustDispatch(t, c, IntentAddItem, Payload{ItemID: "m1"})
	mustDispatch(t, c, IntentOpenCart, Payload{})
	mustDispatch(t, c, IntentRequestCourier, Payload{})

	_, err := c.Dispatch(IntentConfirmPickup, Payload{})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if snap := c.Snapshot(); snap.Order.Status != OrderStatusFindingCourier {
		t.Errorf("status = %s, want finding_courier (unchanged)", snap.Order.Status)
	}
}

func TestCancelIsIdempotentAcrossDispatches(t *testing.T) {
	c, archive := newTestCoordinator(t)
	toShopping(t, c)
	mustDispatch(t, c, IntentSelectRestaurant, Payload{RestaurantID: "1"})
	mustDispatch(t, c, IntentAddItem, Payload{ItemID: "m1"})
	mustDispatch(t, c, IntentOpenCart, Payload{})
	mustDispatch(t, c, IntentRequestCourier, Payload{})

	snap := mustDispatch(t, c, IntentCancelOrder, Payload{})
	if snap.Order.Status != OrderStatusCancelled {
		t.Fatalf("status = %s, want cancelled", snap.Order.Status)
	}
	if snap.Screen.Kind != ScreenCustomerHome {
		t.Errorf("screen = %s, want customer-home", snap.Screen.Kind)
	}
	if snap.Delivery != nil {
		t.Error("cancelled order still projects a delivery task")
	}

	// cancelling again is a no-op
	snap = mustDispatch(t, c, IntentCancelOrder, Payload{})
	if snap.Order.Status != OrderStatusCancelled {
		t.Errorf("status = %s, want cancelled", snap.Order.Status)
	}

	deadline := time.Now().Add(time.Second)
	for {
		recent, _ := archive.Recent(context.Background(), 5)
		if len(recent) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("archived %d orders, want exactly 1", len(recent))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSwitchModeClearsContextAndRoutesHome(t *testing.T) {
	c, _ := newTestCoordinator(t)
	toShopping(t, c)
	mustDispatch(t, c, IntentSelectRestaurant, Payload{RestaurantID: "1"})

	snap := mustDispatch(t, c, IntentSwitchMode, Payload{Mode: ModeBiker})
	if snap.SelectedRestaurantID != "" {
		t.Errorf("selected restaurant = %q, want empty", snap.SelectedRestaurantID)
	}
	if snap.Screen.Kind != ScreenBikerHome {
		t.Errorf("screen = %s, want biker-home", snap.Screen.Kind)
	}
	if snap.Order != nil {
		t.Error("order still visible after mode switch")
	}
}

func TestSplashAutoAdvance(t *testing.T) {
	archive := NewMemoryArchive()
	c := NewCoordinator(DemoCatalog(), NewChatLog(), archive,
		decimal.RequireFromString("2.99"), 10*time.Millisecond)
	c.Start()

	deadline := time.Now().Add(time.Second)
	for {
		if c.Snapshot().Screen.Kind == ScreenLogin {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("splash never advanced to login")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStaleSplashTimerCannotNavigate(t *testing.T) {
	archive := NewMemoryArchive()
	c := NewCoordinator(DemoCatalog(), NewChatLog(), archive,
		decimal.RequireFromString("2.99"), 30*time.Millisecond)
	c.Start()

	// the user leaves splash before the timer fires
	mustDispatch(t, c, IntentSwitchMode, Payload{Mode: ModeBiker})

	time.Sleep(120 * time.Millisecond)
	if got := c.Snapshot().Screen.Kind; got != ScreenBikerHome {
		t.Errorf("screen = %s, want biker-home (stale timer must not navigate)", got)
	}
}

type denyAll struct{}

func (denyAll) Login() bool { return false }

func TestRejectedLoginStaysOnLoginScreen(t *testing.T) {
	c, _ := newTestCoordinator(t)
	c.SetAuth(denyAll{})
	mustDispatch(t, c, IntentSplashDone, Payload{})

	snap := mustDispatch(t, c, IntentLogin, Payload{})
	if snap.Screen.Kind != ScreenLogin {
		t.Errorf("screen = %s, want login", snap.Screen.Kind)
	}
}

func TestPayloadValidation(t *testing.T) {
	c, _ := newTestCoordinator(t)
	toShopping(t, c)

	if _, err := c.Dispatch(IntentSelectRestaurant, Payload{}); !errors.Is(err, ErrMissingPayload) {
		t.Errorf("select without restaurant: err = %v, want ErrMissingPayload", err)
	}
	if _, err := c.Dispatch(IntentSelectRestaurant, Payload{RestaurantID: "zzz"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("select unknown restaurant: err = %v, want ErrNotFound", err)
	}
	if _, err := c.Dispatch(IntentAddItem, Payload{ItemID: "zzz"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("add unknown item: err = %v, want ErrNotFound", err)
	}
	if _, err := c.Dispatch(IntentOpenChat, Payload{}); !errors.Is(err, ErrMissingPayload) {
		t.Errorf("chat without peer: err = %v, want ErrMissingPayload", err)
	}
	if _, err := c.Dispatch(IntentOpenCart, Payload{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("open empty cart: err = %v, want ErrInvalidArgument", err)
	}
}
