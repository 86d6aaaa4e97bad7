package service

import (
	"context"

	"phonebook_backend/internal/contacts/domain"
	"phonebook_backend/platform/phone"
)

// FindContactsByNumber returns the distinct owners of numbers matching raw,
// ordered by contact id. With exact the canonical forms must be equal;
// otherwise the canonical query may occur anywhere in a stored number.
// A query without digits matches nothing.
func (s *Service) FindContactsByNumber(ctx context.Context, raw string, exact bool) ([]domain.Contact, error) {
	const op = "contacts.FindContactsByNumber"

	canonical := phone.Canonicalize(raw)
	if canonical == "" {
		return []domain.Contact{}, nil
	}

	numbers, err := s.repo.FindPhoneNumbers(ctx, canonical, exact)
	if err != nil {
		return nil, domain.Persistence(op, err)
	}

	seen := make(map[int64]struct{}, len(numbers))
	ids := make([]int64, 0, len(numbers))
	for _, n := range numbers {
		if _, ok := seen[n.ContactID]; ok {
			continue
		}
		seen[n.ContactID] = struct{}{}
		ids = append(ids, n.ContactID)
	}

	contacts, err := s.repo.GetContacts(ctx, ids)
	if err != nil {
		return nil, domain.Persistence(op, err)
	}
	return contacts, nil
}

// FindPhoneNumber returns the first stored number equal to raw's canonical
// form, or an error wrapping domain.ErrNotFound.
func (s *Service) FindPhoneNumber(ctx context.Context, raw string) (domain.PhoneNumber, error) {
	canonical := phone.Canonicalize(raw)
	if canonical == "" {
		return domain.PhoneNumber{}, domain.NotFound("phone number", raw)
	}

	numbers, err := s.repo.FindPhoneNumbers(ctx, canonical, true)
	if err != nil {
		return domain.PhoneNumber{}, domain.Persistence("contacts.FindPhoneNumber", err)
	}
	if len(numbers) == 0 {
		return domain.PhoneNumber{}, domain.NotFound("phone number", canonical)
	}
	return numbers[0], nil
}
