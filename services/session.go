package services

import "fmt"

// Modes of the shell. Customer orders food, biker delivers it.
const (
	ModeCustomer = "customer"
	ModeBiker    = "biker"
)

// Session is the in-memory context for one running user: active screen,
// role, shopping cart and the visible order. One instance per session;
// callers hold an explicit handle, there are no ambient globals. All
// mutation goes through the Coordinator.
type Session struct {
	Screen               Screen
	Mode                 string
	SelectedRestaurantID string
	ChatPeerID           string
	Cart                 *Cart
	Order                *Order // visible active order; nil after a mode switch detaches it
}

// NewSession starts on the splash screen in customer mode with an empty
// cart and a fresh order draft.
func NewSession() *Session {
	order := NewOrder()
	return &Session{
		Screen: Screen{Kind: ScreenSplash},
		Mode:   ModeCustomer,
		Cart:   &Cart{},
		Order:  order,
	}
}

// SwitchMode flips the role, clears role-scoped context and lands on the
// new mode's home screen. The order is detached from view, not destroyed;
// the coordinator keeps the canonical lifecycle.
func (s *Session) SwitchMode(mode string) error {
	if mode != ModeCustomer && mode != ModeBiker {
		return fmt.Errorf("mode %q: %w", mode, ErrInvalidArgument)
	}
	s.Mode = mode
	s.SelectedRestaurantID = ""
	s.ChatPeerID = ""
	s.Order = nil
	s.Screen = HomeScreen(mode)
	return nil
}
