// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"phonebook_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Publisher   = events.Publisher
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Contacts Domain Events
// =============================================================================

// ContactCreated is published when a contact is stored for the first time,
// including when an update request for an unknown id creates one.
type ContactCreated struct {
	BaseEvent
	ContactID int64  `json:"contactId"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

func (e ContactCreated) EventName() string { return "contacts.contact.created" }

// ContactUpdated is published when an existing contact's names were merged and saved.
type ContactUpdated struct {
	BaseEvent
	ContactID int64  `json:"contactId"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

func (e ContactUpdated) EventName() string { return "contacts.contact.updated" }

// ContactDeleted is published when a contact and its numbers were removed.
type ContactDeleted struct {
	BaseEvent
	ContactID int64 `json:"contactId"`
}

func (e ContactDeleted) EventName() string { return "contacts.contact.deleted" }

// PhoneNumberAdded is published after the assembler committed a new number.
type PhoneNumberAdded struct {
	BaseEvent
	ContactID     int64  `json:"contactId"`
	PhoneNumberID int64  `json:"phoneNumberId"`
	Number        string `json:"number"`
	Mask          string `json:"mask"`
	Type          string `json:"type"`
}

func (e PhoneNumberAdded) EventName() string { return "contacts.phone_number.added" }

// PhoneNumberDeleted is published when a number was detached from a contact.
type PhoneNumberDeleted struct {
	BaseEvent
	ContactID int64  `json:"contactId"`
	Number    string `json:"number"`
}

func (e PhoneNumberDeleted) EventName() string { return "contacts.phone_number.deleted" }
