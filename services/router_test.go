package services

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestNextScreen(t *testing.T) {
	tests := []struct {
		name    string
		current Screen
		mode    string
		intent  Intent
		payload Payload
		want    ScreenKind
		wantErr error
	}{
		{"splash advances to login", Screen{Kind: ScreenSplash}, ModeCustomer, IntentSplashDone, Payload{}, ScreenLogin, nil},
		{"stale splash advance rejected", Screen{Kind: ScreenCustomerHome}, ModeCustomer, IntentSplashDone, Payload{}, ScreenCustomerHome, ErrInvalidTransition},
		{"login lands on customer home", Screen{Kind: ScreenLogin}, ModeCustomer, IntentLogin, Payload{}, ScreenCustomerHome, nil},
		{"login lands on biker home", Screen{Kind: ScreenLogin}, ModeBiker, IntentLogin, Payload{}, ScreenBikerHome, nil},
		{"logout returns to login", Screen{Kind: ScreenProfile}, ModeCustomer, IntentLogout, Payload{}, ScreenLogin, nil},
		{"menu needs a restaurant", Screen{Kind: ScreenCustomerHome}, ModeCustomer, IntentSelectRestaurant, Payload{}, ScreenCustomerHome, ErrMissingPayload},
		{"menu carries its restaurant", Screen{Kind: ScreenCustomerHome}, ModeCustomer, IntentSelectRestaurant, Payload{RestaurantID: "1"}, ScreenRestaurantMenu, nil},
		{"chat needs a peer", Screen{Kind: ScreenOrderTracking}, ModeCustomer, IntentOpenChat, Payload{}, ScreenOrderTracking, ErrMissingPayload},
		{"chat carries its peer", Screen{Kind: ScreenOrderTracking}, ModeCustomer, IntentOpenChat, Payload{PeerID: "b1"}, ScreenChat, nil},
		{"close chat as customer", Screen{Kind: ScreenChat, PeerID: "b1"}, ModeCustomer, IntentCloseChat, Payload{}, ScreenOrderTracking, nil},
		{"close chat as biker", Screen{Kind: ScreenChat, PeerID: "c1"}, ModeBiker, IntentCloseChat, Payload{}, ScreenActiveDelivery, nil},
		{"cancel goes home", Screen{Kind: ScreenOrderTracking}, ModeCustomer, IntentCancelOrder, Payload{}, ScreenCustomerHome, nil},
		{"accepting an offer opens the delivery", Screen{Kind: ScreenBikerHome}, ModeBiker, IntentAcceptOffer, Payload{}, ScreenActiveDelivery, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextScreen(tt.current, tt.mode, tt.intent, tt.payload)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got.Kind != tt.want {
				t.Errorf("kind = %s, want %s", got.Kind, tt.want)
			}
		})
	}
}

func TestNextScreenPayloadShapesDestination(t *testing.T) {
	got, err := NextScreen(Screen{Kind: ScreenCustomerHome}, ModeCustomer, IntentSelectRestaurant, Payload{RestaurantID: "2"})
	if err != nil {
		t.Fatal(err)
	}
	if got.RestaurantID != "2" {
		t.Errorf("restaurant id = %q, want 2", got.RestaurantID)
	}

	got, err = NextScreen(Screen{Kind: ScreenOrderTracking}, ModeCustomer, IntentOpenChat, Payload{PeerID: "b1"})
	if err != nil {
		t.Fatal(err)
	}
	if got.PeerID != "b1" {
		t.Errorf("peer id = %q, want b1", got.PeerID)
	}
}

func TestSplashTimerFires(t *testing.T) {
	r := &Router{}
	var fired atomic.Int32
	r.ArmSplash(10*time.Millisecond, func() { fired.Add(1) })

	deadline := time.Now().Add(time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if fired.Load() != 1 {
		t.Errorf("fired %d times, want 1", fired.Load())
	}
}

func TestCancelledSplashTimerNeverFires(t *testing.T) {
	r := &Router{}
	var fired atomic.Int32
	r.ArmSplash(20*time.Millisecond, func() { fired.Add(1) })
	r.CancelSplash()

	time.Sleep(60 * time.Millisecond)
	if fired.Load() != 0 {
		t.Errorf("cancelled timer fired %d times", fired.Load())
	}
}

func TestRearmInvalidatesOlderTimer(t *testing.T) {
	r := &Router{}
	var first, second atomic.Int32
	r.ArmSplash(20*time.Millisecond, func() { first.Add(1) })
	r.ArmSplash(20*time.Millisecond, func() { second.Add(1) })

	time.Sleep(80 * time.Millisecond)
	if first.Load() != 0 {
		t.Errorf("replaced timer fired %d times", first.Load())
	}
	if second.Load() != 1 {
		t.Errorf("live timer fired %d times, want 1", second.Load())
	}
}
