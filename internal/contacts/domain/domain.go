// Package domain holds the phonebook entities and the error taxonomy shared by
// the contacts repository, service and handlers.
package domain

import (
	"strings"

	"phonebook_backend/platform/phone"
)

// MaxFieldLength is the widest value any phonebook column accepts.
const MaxFieldLength = 45

// Contact is a person in the phonebook. An empty name means the name is absent.
type Contact struct {
	ID           int64
	FirstName    string
	LastName     string
	PhoneNumbers []PhoneNumber
}

// HasName reports whether at least one name is present after trimming.
func (c Contact) HasName() bool {
	return strings.TrimSpace(c.FirstName) != "" || strings.TrimSpace(c.LastName) != ""
}

// Merge applies the non-nil names onto c. Nil leaves the existing value.
func (c Contact) Merge(firstName, lastName *string) Contact {
	if firstName != nil {
		c.FirstName = strings.TrimSpace(*firstName)
	}
	if lastName != nil {
		c.LastName = strings.TrimSpace(*lastName)
	}
	return c
}

// PhoneMask is a shared formatting template such as "+X(XXX)XXX-XX-XX".
type PhoneMask struct {
	ID       int64
	Template string
}

// PhoneType is a shared label such as "mobile" or "work".
type PhoneType struct {
	ID   int64
	Name string
}

// PhoneNumber is a canonical number owned by a contact. ID is unique together
// with ContactID.
type PhoneNumber struct {
	ID        int64
	ContactID int64
	Number    string
	Mask      PhoneMask
	Type      PhoneType
}

// Formatted renders the number the way it was originally written.
func (p PhoneNumber) Formatted() string {
	return phone.Format(p.Number, p.Mask.Template)
}

// UpsertResult is the outcome of an update request. Created is true when no
// contact had the requested id and a new one was stored instead.
type UpsertResult struct {
	Contact Contact
	Created bool
}
