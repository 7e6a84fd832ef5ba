package services

import (
	"fmt"
	"sync"
	"time"
)

// ScreenKind names one screen of the shell.
type ScreenKind string

const (
	ScreenSplash         ScreenKind = "splash"
	ScreenLogin          ScreenKind = "login"
	ScreenCustomerHome   ScreenKind = "customer-home"
	ScreenRestaurantMenu ScreenKind = "restaurant-menu"
	ScreenCart           ScreenKind = "cart"
	ScreenFindBiker      ScreenKind = "find-biker"
	ScreenOrderTracking  ScreenKind = "order-tracking"
	ScreenOrders         ScreenKind = "orders"
	ScreenBikerHome      ScreenKind = "biker-home"
	ScreenActiveDelivery ScreenKind = "active-delivery"
	ScreenChat           ScreenKind = "chat"
	ScreenProfile        ScreenKind = "profile"
)

// Screen is a screen kind plus the payload that kind requires. The payload
// travels inside the screen value, so a chat screen cannot exist without
// its peer nor a menu screen without its restaurant.
type Screen struct {
	Kind         ScreenKind
	RestaurantID string // restaurant-menu only
	PeerID       string // chat only
}

// HomeScreen is the landing screen for a mode.
func HomeScreen(mode string) Screen {
	if mode == ModeBiker {
		return Screen{Kind: ScreenBikerHome}
	}
	return Screen{Kind: ScreenCustomerHome}
}

// NextScreen computes the destination screen for a navigation intent.
// Screens form a directed graph; going back is an explicit intent, not a
// history pop. NextScreen never mutates session data, it only reads the
// payload needed to shape the destination. Intents that keep the current
// screen (add_item, set_quantity, send_message, ...) are not routed here.
func NextScreen(current Screen, mode string, intent Intent, p Payload) (Screen, error) {
	switch intent {
	case IntentSplashDone:
		if current.Kind != ScreenSplash {
			return current, fmt.Errorf("splash already left: %w", ErrInvalidTransition)
		}
		return Screen{Kind: ScreenLogin}, nil
	case IntentLogin:
		return HomeScreen(mode), nil
	case IntentLogout:
		return Screen{Kind: ScreenLogin}, nil
	case IntentGoHome:
		return HomeScreen(mode), nil
	case IntentOpenProfile:
		return Screen{Kind: ScreenProfile}, nil
	case IntentOpenOrders:
		return Screen{Kind: ScreenOrders}, nil
	case IntentSwitchMode:
		return HomeScreen(p.Mode), nil
	case IntentSelectRestaurant:
		if p.RestaurantID == "" {
			return current, fmt.Errorf("restaurant-menu needs a restaurant: %w", ErrMissingPayload)
		}
		return Screen{Kind: ScreenRestaurantMenu, RestaurantID: p.RestaurantID}, nil
	case IntentOpenMenu:
		// Back from the cart to the menu of the still-selected restaurant.
		if p.RestaurantID == "" {
			return current, fmt.Errorf("restaurant-menu needs a restaurant: %w", ErrMissingPayload)
		}
		return Screen{Kind: ScreenRestaurantMenu, RestaurantID: p.RestaurantID}, nil
	case IntentOpenCart:
		return Screen{Kind: ScreenCart}, nil
	case IntentRequestCourier:
		return Screen{Kind: ScreenFindBiker}, nil
	case IntentCourierFound:
		return Screen{Kind: ScreenOrderTracking}, nil
	case IntentOpenTracking:
		return Screen{Kind: ScreenOrderTracking}, nil
	case IntentAcceptOffer:
		return Screen{Kind: ScreenActiveDelivery}, nil
	case IntentOpenDelivery:
		return Screen{Kind: ScreenActiveDelivery}, nil
	case IntentOpenChat:
		if p.PeerID == "" {
			return current, fmt.Errorf("chat needs a peer: %w", ErrMissingPayload)
		}
		return Screen{Kind: ScreenChat, PeerID: p.PeerID}, nil
	case IntentCloseChat:
		// Chat is reachable from both tracking and active delivery; the
		// mode decides which one "back" means.
		if mode == ModeBiker {
			return Screen{Kind: ScreenActiveDelivery}, nil
		}
		return Screen{Kind: ScreenOrderTracking}, nil
	case IntentCancelOrder:
		return HomeScreen(mode), nil
	}
	return current, nil
}

// Router owns the one scheduled transition of the app: the splash screen
// auto-advance. The timer is single-shot and cancellable; a generation
// counter makes sure a timer that lost the race can never fire late.
type Router struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// ArmSplash schedules fire to run once after delay. Re-arming replaces any
// pending timer.
func (r *Router) ArmSplash(delay time.Duration, fire func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.gen++
	gen := r.gen
	r.timer = time.AfterFunc(delay, func() {
		r.mu.Lock()
		live := gen == r.gen
		r.mu.Unlock()
		if live {
			fire()
		}
	})
}

// CancelSplash invalidates any pending splash timer. Called on every
// screen change so a stale timer cannot navigate a screen the user has
// already left.
func (r *Router) CancelSplash() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.gen++
}
