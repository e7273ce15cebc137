package interfaces

// Event is the payload attached to a store notification. StateUpdate
// ticks carry the zero Event: they mean "something may have changed,
// re-read the store", nothing more.
type Event struct {
	Code      string
	MessageID string
}

// Names of the events flowing between the store, the polling ticker,
// and mounted views.
const (
	EventSessionCreated = "session_created"
	EventMessageAdded   = "message_added"
	EventMessageRead    = "message_read"
	EventSessionClosed  = "session_closed"
	EventStateUpdate    = "state_update"
)

// EventPublisher is the store's outbound notification boundary.
// Delivery is synchronous on the publisher's goroutine, in handler
// registration order.
type EventPublisher interface {
	Publish(name string, evt Event)
}
