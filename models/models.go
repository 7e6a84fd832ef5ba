package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Restaurant is a catalog record shown on the customer home screen.
type Restaurant struct {
	ID       string
	Name     string
	Image    string
	Rating   float64
	Distance string
	Category string
	Address  string
}

// MenuItem is one dish on a restaurant's menu.
type MenuItem struct {
	ID           string
	RestaurantID string
	Name         string
	Price        decimal.Decimal
	Image        string
}

// CartLine is one entry in the cart. Identity is ItemID; quantity is
// always at least 1 while the line exists.
type CartLine struct {
	ItemID    string
	Name      string
	UnitPrice decimal.Decimal
	Qty       int
	Image     string
}

// CourierRef identifies a courier ("biker") for assignment and chat.
type CourierRef struct {
	ID     string
	Name   string
	Image  string
	Rating float64
}

// Address is an opaque delivery address; no geocoding in this system.
type Address struct {
	Label string
	Line  string
}

// Message is one chat message between the customer and the courier.
type Message struct {
	ID     string
	PeerID string
	Sent   bool // true when the session user sent it, false for the peer
	Text   string
	SentAt time.Time
}

// ArchivedOrder is a finished order row for the orders screen.
type ArchivedOrder struct {
	OrderID      string
	RestaurantID string
	Status       string
	GrandTotal   decimal.Decimal
	CreatedAt    time.Time
	ClosedAt     time.Time
}
