package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"phonebook_backend/internal/contacts/domain"
	"phonebook_backend/internal/contacts/repository"
	"phonebook_backend/internal/events"
	"phonebook_backend/platform/phone"
)

// AddPhoneNumber canonicalizes raw, deduplicates its mask and the type name
// and stores the number for the contact. Everything happens in one
// transaction, so a failure leaves no new mask, type or number behind.
// Duplicate numbers are not rejected here; see FindPhoneNumber.
func (s *Service) AddPhoneNumber(ctx context.Context, contactID int64, raw, typeName string) (domain.PhoneNumber, error) {
	const op = "contacts.AddPhoneNumber"

	canonical := phone.Canonicalize(raw)
	if canonical == "" {
		return domain.PhoneNumber{}, domain.InvalidNumber("phone number has no digits")
	}
	mask := phone.DeriveMask(raw)
	if len(canonical) > domain.MaxFieldLength || utf8.RuneCountInString(mask) > domain.MaxFieldLength {
		return domain.PhoneNumber{}, domain.InvalidNumber("phone number is too long")
	}

	var stored domain.PhoneNumber
	err := s.repo.InTx(ctx, func(tx repository.Repository) error {
		if _, err := tx.GetContact(ctx, contactID); err != nil {
			return err
		}

		typeName = strings.TrimSpace(typeName)
		switch {
		case typeName == "":
			return domain.InvalidPhoneType("phone type is required")
		case utf8.RuneCountInString(typeName) > domain.MaxFieldLength:
			return domain.InvalidPhoneType("phone type is too long")
		}

		phoneMask, err := tx.FindOrCreateMask(ctx, mask, true)
		if err != nil {
			return domain.Persistence(op, err)
		}
		phoneType, err := tx.FindOrCreateType(ctx, typeName, true)
		if err != nil {
			return domain.Persistence(op, err)
		}

		stored, err = tx.InsertPhoneNumber(ctx, domain.PhoneNumber{
			ContactID: contactID,
			Number:    canonical,
			Mask:      phoneMask,
			Type:      phoneType,
		})
		return err
	})
	if err != nil {
		return domain.PhoneNumber{}, domain.Persistence(op, err)
	}

	s.log.WithContext(ctx).Info("phone number added", "contactId", contactID, "phoneNumberId", stored.ID)
	s.bus.Publish(ctx, events.PhoneNumberAdded{
		BaseEvent:     events.NewBaseEvent(),
		ContactID:     contactID,
		PhoneNumberID: stored.ID,
		Number:        stored.Number,
		Mask:          stored.Mask.Template,
		Type:          stored.Type.Name,
	})
	return stored, nil
}

// DeletePhoneNumber removes the contact's number matching raw after
// canonicalization. It reports false when nothing matched.
func (s *Service) DeletePhoneNumber(ctx context.Context, contactID int64, raw string) (bool, error) {
	canonical := phone.Canonicalize(raw)
	if canonical == "" {
		return false, nil
	}

	deleted, err := s.repo.DeletePhoneNumber(ctx, contactID, canonical)
	if err != nil {
		return false, domain.Persistence("contacts.DeletePhoneNumber", err)
	}
	if deleted {
		s.log.WithContext(ctx).Info("phone number deleted", "contactId", contactID)
		s.bus.Publish(ctx, events.PhoneNumberDeleted{
			BaseEvent: events.NewBaseEvent(),
			ContactID: contactID,
			Number:    canonical,
		})
	}
	return deleted, nil
}

func isContactNotFound(err error) bool {
	return errors.Is(err, domain.ErrContactNotFound)
}
