package service

import (
	"phonebook_backend/internal/contacts/domain"
	"phonebook_backend/internal/contacts/transport"
	"phonebook_backend/platform/phone"
)

// ToContactResponse maps a contact for the wire.
func (s *Service) ToContactResponse(c domain.Contact) transport.ContactResponse {
	numbers := make([]transport.PhoneNumberResponse, 0, len(c.PhoneNumbers))
	for _, n := range c.PhoneNumbers {
		numbers = append(numbers, s.ToPhoneNumberResponse(n))
	}
	return transport.ContactResponse{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		PhoneNumbers: numbers,
	}
}

// ToContactListResponse wraps contacts in the list envelope.
func (s *Service) ToContactListResponse(contacts []domain.Contact) transport.ContactListResponse {
	items := make([]transport.ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		items = append(items, s.ToContactResponse(c))
	}
	return transport.ContactListResponse{Contacts: items}
}

// ToPhoneNumberResponse shows the number as originally written, plus an E.164
// form when it parses for the configured region.
func (s *Service) ToPhoneNumberResponse(n domain.PhoneNumber) transport.PhoneNumberResponse {
	formatted := n.Formatted()
	e164, _ := phone.NormalizeE164(formatted, s.region)
	return transport.PhoneNumberResponse{
		ID:        n.ID,
		Number:    formatted,
		Canonical: n.Number,
		Type:      n.Type.Name,
		E164:      e164,
	}
}
