package entity

import "time"

// EventTopic groups change notifications by the data they concern.
type EventTopic string

const (
	TopicProducts  EventTopic = "products"
	TopicCustomers EventTopic = "customers"
	TopicInvoices  EventTopic = "invoices"
	TopicSettings  EventTopic = "settings"
	TopicCart      EventTopic = "cart"
)

// ParseEventTopic validates a topic name taken from a request.
func ParseEventTopic(s string) (EventTopic, bool) {
	switch t := EventTopic(s); t {
	case TopicProducts, TopicCustomers, TopicInvoices, TopicSettings, TopicCart:
		return t, true
	}
	return "", false
}

// Event actions
const (
	ActionCreated    = "created"
	ActionUpdated    = "updated"
	ActionDeleted    = "deleted"
	ActionReconciled = "reconciled"
	ActionReset      = "reset"
)

// Event tells listeners that a record changed so they can refetch it.
type Event struct {
	Topic  EventTopic `json:"topic"`
	Action string     `json:"action"`
	ID     string     `json:"id,omitempty"`
	At     time.Time  `json:"at"`
}

// NewEvent stamps an event with the current time.
func NewEvent(topic EventTopic, action, id string) Event {
	return Event{Topic: topic, Action: action, ID: id, At: time.Now().UTC()}
}
