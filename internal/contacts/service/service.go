// Package service implements the phonebook operations on top of the contacts
// repository: contact CRUD, the update-or-create controller, the phone number
// assembler and the number matcher.
package service

import (
	"context"

	"phonebook_backend/internal/contacts/domain"
	"phonebook_backend/internal/contacts/repository"
	"phonebook_backend/internal/events"
	"phonebook_backend/platform/logger"
	"phonebook_backend/platform/phone"
	"phonebook_backend/platform/sanitize"
)

// Service provides business logic for contacts.
type Service struct {
	repo   repository.Repository
	bus    events.Publisher
	region string
	log    *logger.Logger
}

// New creates a new contacts service. region is the default region used for
// the E.164 hint in responses.
func New(repo repository.Repository, bus events.Publisher, region string, log *logger.Logger) *Service {
	if region == "" {
		region = phone.DefaultRegion
	}
	return &Service{repo: repo, bus: bus, region: region, log: log}
}

// FindAllContacts returns every contact with its numbers, ordered by id.
func (s *Service) FindAllContacts(ctx context.Context) ([]domain.Contact, error) {
	contacts, err := s.repo.ListContacts(ctx)
	if err != nil {
		return nil, domain.Persistence("contacts.FindAllContacts", err)
	}
	return contacts, nil
}

// FindContact returns one contact or an error wrapping domain.ErrContactNotFound.
func (s *Service) FindContact(ctx context.Context, id int64) (domain.Contact, error) {
	contact, err := s.repo.GetContact(ctx, id)
	if err != nil {
		return domain.Contact{}, domain.Persistence("contacts.FindContact", err)
	}
	return contact, nil
}

// CreateContact stores a new contact. At least one name must be non-blank.
func (s *Service) CreateContact(ctx context.Context, firstName, lastName string) (domain.Contact, error) {
	candidate := domain.Contact{
		FirstName: sanitize.Name(firstName),
		LastName:  sanitize.Name(lastName),
	}
	if !candidate.HasName() {
		return domain.Contact{}, domain.InvalidContact()
	}

	contact, err := s.repo.CreateContact(ctx, candidate.FirstName, candidate.LastName)
	if err != nil {
		return domain.Contact{}, domain.Persistence("contacts.CreateContact", err)
	}

	s.log.WithContext(ctx).Info("contact created", "contactId", contact.ID)
	s.publishCreated(ctx, contact)
	return contact, nil
}

// UpdateContact merges the non-nil names onto the contact with the given id.
// When no such contact exists a new one is created from the supplied names and
// the result reports Created with the new id.
func (s *Service) UpdateContact(ctx context.Context, id int64, firstName, lastName *string) (domain.UpsertResult, error) {
	var result domain.UpsertResult
	firstName, lastName = sanitize.NamePtr(firstName), sanitize.NamePtr(lastName)

	err := s.repo.InTx(ctx, func(tx repository.Repository) error {
		existing, err := tx.GetContact(ctx, id)
		switch {
		case err == nil:
			merged := existing.Merge(firstName, lastName)
			if !merged.HasName() {
				return domain.InvalidContact()
			}
			if err := tx.UpdateContact(ctx, merged); err != nil {
				return err
			}
			result = domain.UpsertResult{Contact: merged}
			return nil
		case !isContactNotFound(err):
			return err
		}

		candidate := domain.Contact{}.Merge(firstName, lastName)
		if !candidate.HasName() {
			return domain.InvalidContact()
		}
		created, err := tx.CreateContact(ctx, candidate.FirstName, candidate.LastName)
		if err != nil {
			return err
		}
		result = domain.UpsertResult{Contact: created, Created: true}
		return nil
	})
	if err != nil {
		return domain.UpsertResult{}, domain.Persistence("contacts.UpdateContact", err)
	}

	log := s.log.WithContext(ctx)
	if result.Created {
		log.Info("contact created by update", "requestedId", id, "contactId", result.Contact.ID)
		s.publishCreated(ctx, result.Contact)
	} else {
		log.Info("contact updated", "contactId", result.Contact.ID)
		s.bus.Publish(ctx, events.ContactUpdated{
			BaseEvent: events.NewBaseEvent(),
			ContactID: result.Contact.ID,
			FirstName: result.Contact.FirstName,
			LastName:  result.Contact.LastName,
		})
	}
	return result, nil
}

// DeleteContact removes a contact and its numbers. Masks and types stay.
func (s *Service) DeleteContact(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.repo.DeleteContact(ctx, id)
	if err != nil {
		return false, domain.Persistence("contacts.DeleteContact", err)
	}
	if deleted {
		s.log.WithContext(ctx).Info("contact deleted", "contactId", id)
		s.bus.Publish(ctx, events.ContactDeleted{BaseEvent: events.NewBaseEvent(), ContactID: id})
	}
	return deleted, nil
}

func (s *Service) publishCreated(ctx context.Context, contact domain.Contact) {
	s.bus.Publish(ctx, events.ContactCreated{
		BaseEvent: events.NewBaseEvent(),
		ContactID: contact.ID,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
	})
}
