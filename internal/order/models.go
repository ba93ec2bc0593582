package order

import (
	"time"

	"order-relay-bot/internal/address"
	"order-relay-bot/internal/contact"
)

type Status string

const (
	StatusNew      Status = "new"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusDone     Status = "done"
)

type DriverState string

const (
	DriverNone      DriverState = ""
	DriverAccepted  DriverState = "accepted"
	DriverOnWay     DriverState = "on_way"
	DriverPickedUp  DriverState = "picked_up"
	DriverDelivered DriverState = "delivered"
)

// Record is the tracked state of one order, keyed by the id of the card sent to the operator.
// The *ID fields other than CardID point to derivative messages kept only so that they can be
// deleted or edited later.
type Record struct {
	CardID          int
	OriginChatID    int64
	OriginThreadID  int
	OriginMessageID int
	ChatName        string
	RequestNumber   string

	Status            Status
	Night             bool
	Contact           contact.Status
	AddressIncomplete bool
	MissingFields     address.Fields
	Handler           string

	AcceptReplyID      int
	AssignNoticeID     int
	EditNotificationID int

	OriginalText string
	CardText     string

	DriverID        int64
	DriverMessageID int
	DriverState     DriverState

	CreatedAt time.Time
	UpdatedAt time.Time
}

type EventType string

const (
	EventOpened          EventType = "opened"
	EventAccepted        EventType = "accepted"
	EventRejected        EventType = "rejected"
	EventCompleted       EventType = "completed"
	EventAssigned        EventType = "assigned"
	EventAddressResolved EventType = "address_resolved"
	EventEdited          EventType = "edited"
	EventEditAccepted    EventType = "edit_accepted"
	EventDriverAttached  EventType = "driver_attached"
	EventDriverState     EventType = "driver_state"
)

// Event is one journal entry describing a transition of a Record.
type Event struct {
	Type          EventType
	CardID        int
	ChatID        int64
	ChatName      string
	RequestNumber string
	Status        Status
	Handler       string
	Detail        string
	CreatedAt     time.Time
}

type DBEvent struct {
	EventID       string    `db:"event_id"`
	EventType     string    `db:"event_type"`
	CardID        int       `db:"card_id"`
	ChatID        int64     `db:"chat_id"`
	ChatSlug      string    `db:"chat_slug"`
	RequestNumber string    `db:"request_number"`
	Status        string    `db:"status"`
	Handler       string    `db:"handler"`
	Detail        string    `db:"detail"`
	CreatedAt     time.Time `db:"created_at"`
}
