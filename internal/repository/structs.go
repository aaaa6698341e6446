package repository

import (
	"errors"
	"time"
)

var (
	// ErrObjectNotFound is returned when a lookup matches nothing.
	ErrObjectNotFound = errors.New("not found")
	// ErrClaimLost is returned by guarded status updates when the row is no
	// longer in the expected state, meaning another actor moved it first.
	ErrClaimLost = errors.New("claim lost")
)

// Status is the order lifecycle. The fulfillment pipeline only ever drives
// placed -> confirmed (claim) -> scheduled (commit); delivered and cancelled
// are set by operators or downstream systems.
type Status string

const (
	StatusPlaced    Status = "placed"
	StatusConfirmed Status = "confirmed"
	StatusScheduled Status = "scheduled"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var statusRank = map[Status]int{
	StatusPlaced:    0,
	StatusConfirmed: 1,
	StatusScheduled: 2,
	StatusDelivered: 3,
}

// CanTransitionTo reports whether moving from s to next keeps the lifecycle
// monotonic. Cancellation is allowed from any state that has not been
// delivered yet.
func (s Status) CanTransitionTo(next Status) bool {
	if next == StatusCancelled {
		return s != StatusDelivered && s != StatusCancelled
	}
	cur, ok := statusRank[s]
	if !ok {
		return false
	}
	nxt, ok := statusRank[next]
	if !ok {
		return false
	}
	return nxt == cur+1
}

// TimePreference is the customer's requested part of day. Morning means
// before noon.
type TimePreference string

const (
	PreferenceMorning   TimePreference = "morning"
	PreferenceAfternoon TimePreference = "afternoon"
	PreferenceEvening   TimePreference = "evening"
	PreferenceAny       TimePreference = "any"
)

// Known reports whether p is one of the accepted preference values. The
// empty string is accepted and treated as "any".
func (p TimePreference) Known() bool {
	switch p {
	case PreferenceMorning, PreferenceAfternoon, PreferenceEvening, PreferenceAny, "":
		return true
	}
	return false
}

type Order struct {
	ID                  string         `db:"id" json:"id"`
	CustomerName        string         `db:"customer_name" json:"customer_name"`
	CustomerEmail       string         `db:"customer_email" json:"customer_email"`
	CustomerPhone       string         `db:"customer_phone" json:"customer_phone,omitempty"`
	DeliveryAddress     string         `db:"delivery_address" json:"delivery_address"`
	RequestedDate       time.Time      `db:"requested_date" json:"requested_date"`
	TimePreference      TimePreference `db:"time_preference" json:"time_preference"`
	Status              Status         `db:"status" json:"status"`
	TotalAmount         float64        `db:"total_amount" json:"total_amount"`
	SpecialInstructions string         `db:"special_instructions" json:"special_instructions,omitempty"`
	ClaimedBy           *string        `db:"claimed_by" json:"-"`
	ClaimedAt           *time.Time     `db:"claimed_at" json:"-"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
	Items               []OrderItem    `db:"-" json:"items"`
}

type OrderItem struct {
	OrderID   string  `db:"order_id" json:"-"`
	Name      string  `db:"name" json:"name"`
	Quantity  int     `db:"quantity" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"unit_price"`
}

// AppointmentStatus is deliberately tiny: an appointment is either on the
// calendar or it has been taken off it.
type AppointmentStatus string

const (
	AppointmentBooked    AppointmentStatus = "booked"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID          string            `db:"id" json:"id"`
	OrderID     string            `db:"order_id" json:"order_id"`
	Label       string            `db:"label" json:"label"`
	Location    string            `db:"location" json:"location,omitempty"`
	Description string            `db:"description" json:"description,omitempty"`
	StartsAt    time.Time         `db:"starts_at" json:"starts_at"`
	EndsAt      time.Time         `db:"ends_at" json:"ends_at"`
	Status      AppointmentStatus `db:"status" json:"status"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
}

// DeliveryState describes what the notification channel knows about a
// message. Accepted means the transport took responsibility for it, not that
// the recipient saw it.
type DeliveryState string

const (
	DeliveryPending  DeliveryState = "pending"
	DeliveryAccepted DeliveryState = "accepted"
	DeliveryUnknown  DeliveryState = "unknown"
)

type NotificationRecord struct {
	Token      string        `db:"token" json:"token"`
	DedupeKey  string        `db:"dedupe_key" json:"dedupe_key"`
	OrderID    string        `db:"order_id" json:"order_id"`
	Recipient  string        `db:"recipient" json:"recipient"`
	Subject    string        `db:"subject" json:"subject"`
	Body       string        `db:"body" json:"body"`
	State      DeliveryState `db:"state" json:"state"`
	AcceptedAt *time.Time    `db:"accepted_at" json:"accepted_at,omitempty"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
}

// StatusCount is one row of the order analytics summary.
type StatusCount struct {
	Status  Status  `db:"status" json:"status"`
	Orders  int     `db:"orders" json:"orders"`
	Revenue float64 `db:"revenue" json:"revenue"`
}
