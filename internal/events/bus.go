// Package events re-exports the platform event bus for convenience.
// This allows internal modules to import events from internal/events
// while the implementation lives in platform/events.
package events

import (
	"context"

	platformevents "phonebook_backend/platform/events"
	"phonebook_backend/platform/logger"
)

// InMemoryBus is a type alias to the platform InMemoryBus
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates a new in-memory event bus.
// This is a convenience re-export from platform/events.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}

// NewAuditHandler returns a handler that writes one log line per phonebook change.
func NewAuditHandler(log *logger.Logger) Handler {
	return HandlerFunc(func(ctx context.Context, event Event) error {
		var contactID int64
		var number string
		switch e := event.(type) {
		case ContactCreated:
			contactID = e.ContactID
		case ContactUpdated:
			contactID = e.ContactID
		case ContactDeleted:
			contactID = e.ContactID
		case PhoneNumberAdded:
			contactID, number = e.ContactID, e.Number
		case PhoneNumberDeleted:
			contactID, number = e.ContactID, e.Number
		default:
			return nil
		}
		log.WithContext(ctx).ContactEvent(event.EventName(), contactID, number)
		return nil
	})
}
