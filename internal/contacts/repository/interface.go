package repository

import (
	"context"

	"phonebook_backend/internal/contacts/domain"
)

// ContactReader loads contacts together with their phone numbers.
type ContactReader interface {
	// ListContacts returns every contact ordered by id.
	ListContacts(ctx context.Context) ([]domain.Contact, error)
	// GetContact returns domain.ErrContactNotFound when id is unknown.
	GetContact(ctx context.Context, id int64) (domain.Contact, error)
	// GetContacts returns the contacts with the given ids ordered by id. Unknown ids are skipped.
	GetContacts(ctx context.Context, ids []int64) ([]domain.Contact, error)
}

// ContactWriter stores contacts.
type ContactWriter interface {
	CreateContact(ctx context.Context, firstName, lastName string) (domain.Contact, error)
	// UpdateContact returns domain.ErrContactNotFound when the contact vanished.
	UpdateContact(ctx context.Context, contact domain.Contact) error
	// DeleteContact removes the contact and its phone numbers. Reports whether a row was deleted.
	DeleteContact(ctx context.Context, id int64) (bool, error)
}

// ReferenceStore deduplicates masks and types by value. With create false a
// miss returns domain.ErrNotFound; with create true the value is inserted.
type ReferenceStore interface {
	FindOrCreateMask(ctx context.Context, template string, create bool) (domain.PhoneMask, error)
	FindOrCreateType(ctx context.Context, name string, create bool) (domain.PhoneType, error)
}

// PhoneNumberStore stores canonical numbers.
type PhoneNumberStore interface {
	// InsertPhoneNumber stores number and returns it with its assigned id.
	InsertPhoneNumber(ctx context.Context, number domain.PhoneNumber) (domain.PhoneNumber, error)
	// DeletePhoneNumber removes every row of contactID equal to the canonical number.
	DeletePhoneNumber(ctx context.Context, contactID int64, canonical string) (bool, error)
	// FindPhoneNumbers returns numbers equal to canonical (exact) or containing it,
	// ordered by contact id then number id.
	FindPhoneNumbers(ctx context.Context, canonical string, exact bool) ([]domain.PhoneNumber, error)
}

// Repository is the full store used by the contacts service.
type Repository interface {
	ContactReader
	ContactWriter
	ReferenceStore
	PhoneNumberStore

	// InTx runs fn against a repository bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(tx Repository) error) error
}
