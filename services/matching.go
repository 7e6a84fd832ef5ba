package services

import (
	"sync"
	"time"

	"bikefood/models"
)

// Matcher is the dispatch/matching collaborator. Given a placed order it
// offers the job to couriers one at a time and reports an acceptance back
// to the coordinator as a courier_found event. Declines are handled
// entirely here: the order stays in finding_courier and the next courier
// in the roster gets the offer. When the roster is exhausted the matcher
// gives up and leaves the order searching; the customer can still cancel.
type Matcher struct {
	mu       sync.Mutex
	roster   []models.CourierRef
	declined map[string]map[string]bool // orderID -> courierID
	offered  map[string]models.CourierRef
	gen      map[string]uint64
	delay    time.Duration
	dispatch func(Intent, Payload) error
}

// NewMatcher builds a matcher over the courier roster. delay simulates
// the time a courier takes to respond; dispatch delivers events back to
// the coordinator.
func NewMatcher(roster []models.CourierRef, delay time.Duration, dispatch func(Intent, Payload) error) *Matcher {
	return &Matcher{
		roster:   roster,
		declined: make(map[string]map[string]bool),
		offered:  make(map[string]models.CourierRef),
		gen:      make(map[string]uint64),
		delay:    delay,
		dispatch: dispatch,
	}
}

// OfferOrder offers the order to the next courier who has not declined
// it. The courier accepts after the response delay unless declined first.
func (m *Matcher) OfferOrder(orderID string) {
	m.mu.Lock()
	courier, ok := m.next(orderID)
	if !ok {
		delete(m.offered, orderID)
		m.mu.Unlock()
		return
	}
	m.offered[orderID] = courier
	m.gen[orderID]++
	gen := m.gen[orderID]
	m.mu.Unlock()

	time.AfterFunc(m.delay, func() {
		m.mu.Lock()
		live := m.gen[orderID] == gen
		m.mu.Unlock()
		if !live {
			return
		}
		c := courier
		_ = m.dispatch(IntentCourierFound, Payload{Courier: &c})
	})
}

// Decline records a courier turning the offer down and re-offers to the
// next one. Order state is never touched; declined tasks are discarded.
func (m *Matcher) Decline(orderID, courierID string) {
	m.mu.Lock()
	if m.declined[orderID] == nil {
		m.declined[orderID] = make(map[string]bool)
	}
	m.declined[orderID][courierID] = true
	m.gen[orderID]++ // invalidate the pending acceptance
	m.mu.Unlock()
	m.OfferOrder(orderID)
}

// Pending returns the courier currently holding the offer for an order.
func (m *Matcher) Pending(orderID string) (models.CourierRef, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.offered[orderID]
	return c, ok
}

// next picks the first roster courier who has not declined this order.
// Caller holds the lock.
func (m *Matcher) next(orderID string) (models.CourierRef, bool) {
	for _, c := range m.roster {
		if !m.declined[orderID][c.ID] {
			return c, true
		}
	}
	return models.CourierRef{}, false
}
