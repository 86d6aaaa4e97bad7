package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"phonebook_backend/internal/contacts/domain"
	"phonebook_backend/internal/contacts/repository"
	"phonebook_backend/internal/events"
	"phonebook_backend/platform/apperr"
	"phonebook_backend/platform/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventName())
	}
	return out
}

func newTestService() (*Service, *repository.Memory, *recordingPublisher) {
	repo := repository.NewMemory()
	bus := &recordingPublisher{}
	return New(repo, bus, "US", logger.Discard()), repo, bus
}

func strPtr(s string) *string { return &s }

func mustCreate(t *testing.T, svc *Service, first, last string) domain.Contact {
	t.Helper()
	c, err := svc.CreateContact(context.Background(), first, last)
	if err != nil {
		t.Fatalf("CreateContact returned error: %v", err)
	}
	return c
}

func mustAdd(t *testing.T, svc *Service, contactID int64, raw, typeName string) domain.PhoneNumber {
	t.Helper()
	n, err := svc.AddPhoneNumber(context.Background(), contactID, raw, typeName)
	if err != nil {
		t.Fatalf("AddPhoneNumber(%q) returned error: %v", raw, err)
	}
	return n
}

func TestCreateContactRequiresAName(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateContact(context.Background(), "  ", "")
	if !errors.Is(err, domain.ErrInvalidContact) {
		t.Fatalf("expected ErrInvalidContact, got %v", err)
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation kind")
	}

	c := mustCreate(t, svc, "", " Hopper ")
	if c.LastName != "Hopper" {
		t.Fatalf("expected trimmed last name, got %q", c.LastName)
	}
}

func TestContactNamesAreSanitized(t *testing.T) {
	svc, _, _ := newTestService()

	c := mustCreate(t, svc, "<b>Grace</b>", "Brewster   Hopper")
	if c.FirstName != "Grace" || c.LastName != "Brewster Hopper" {
		t.Fatalf("unexpected names %q %q", c.FirstName, c.LastName)
	}

	_, err := svc.UpdateContact(context.Background(), c.ID, strPtr("<br/>"), strPtr(""))
	if !errors.Is(err, domain.ErrInvalidContact) {
		t.Fatalf("expected markup-only names to be rejected, got %v", err)
	}
}

func TestAddPhoneNumberRejectsInputWithoutDigits(t *testing.T) {
	svc, repo, _ := newTestService()
	c := mustCreate(t, svc, "Ada", "")

	for _, raw := range []string{"----", "", "call me"} {
		_, err := svc.AddPhoneNumber(context.Background(), c.ID, raw, "mobile")
		if !errors.Is(err, domain.ErrInvalidNumber) {
			t.Fatalf("AddPhoneNumber(%q): expected ErrInvalidNumber, got %v", raw, err)
		}
	}
	// No digits is rejected before the contact is even looked up.
	if _, err := svc.AddPhoneNumber(context.Background(), 999, "----", "mobile"); !errors.Is(err, domain.ErrInvalidNumber) {
		t.Fatalf("expected ErrInvalidNumber for unknown contact, got %v", err)
	}
	if _, numbers, masks, types := repo.Counts(); numbers+masks+types != 0 {
		t.Fatalf("expected nothing stored, got %d numbers %d masks %d types", numbers, masks, types)
	}
}

func TestAddPhoneNumberValidation(t *testing.T) {
	svc, _, _ := newTestService()
	c := mustCreate(t, svc, "Ada", "")

	_, err := svc.AddPhoneNumber(context.Background(), 42, "555-1234", "mobile")
	if !errors.Is(err, domain.ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}

	_, err = svc.AddPhoneNumber(context.Background(), c.ID, "555-1234", "   ")
	if !errors.Is(err, domain.ErrInvalidPhoneType) {
		t.Fatalf("expected ErrInvalidPhoneType, got %v", err)
	}

	long := "1234567890123456789012345678901234567890123456"
	_, err = svc.AddPhoneNumber(context.Background(), c.ID, long, "mobile")
	if !errors.Is(err, domain.ErrInvalidNumber) {
		t.Fatalf("expected ErrInvalidNumber for 46 digits, got %v", err)
	}
}

func TestAddPhoneNumberStoresCanonicalAndMask(t *testing.T) {
	svc, _, bus := newTestService()
	c := mustCreate(t, svc, "Ada", "")

	n := mustAdd(t, svc, c.ID, "+1(876)543-21-00", " mobile ")
	if n.Number != "18765432100" {
		t.Fatalf("expected canonical number, got %q", n.Number)
	}
	if n.Mask.Template != "+X(XXX)XXX-XX-XX" {
		t.Fatalf("unexpected mask %q", n.Mask.Template)
	}
	if n.Type.Name != "mobile" {
		t.Fatalf("expected trimmed type, got %q", n.Type.Name)
	}
	if n.Formatted() != "+1(876)543-21-00" {
		t.Fatalf("expected original formatting, got %q", n.Formatted())
	}

	names := bus.names()
	if names[len(names)-1] != "contacts.phone_number.added" {
		t.Fatalf("expected phone number added event, got %v", names)
	}
}

func TestAddPhoneNumberReusesMaskAndType(t *testing.T) {
	svc, repo, _ := newTestService()
	a := mustCreate(t, svc, "Ada", "")
	b := mustCreate(t, svc, "Alan", "")

	first := mustAdd(t, svc, a.ID, "555-1234", "work")
	second := mustAdd(t, svc, b.ID, "555-9876", "work")

	if first.Mask.ID != second.Mask.ID || first.Type.ID != second.Type.ID {
		t.Fatalf("expected shared mask and type, got %+v and %+v", first, second)
	}
	if _, _, masks, types := repo.Counts(); masks != 1 || types != 1 {
		t.Fatalf("expected one mask and one type row, got %d and %d", masks, types)
	}
}

func TestAddPhoneNumberRollsBackOnInsertFailure(t *testing.T) {
	svc, repo, bus := newTestService()
	c := mustCreate(t, svc, "Ada", "")
	before := len(bus.names())

	repo.FailOn("InsertPhoneNumber", errors.New("disk full"))
	_, err := svc.AddPhoneNumber(context.Background(), c.ID, "(02) 9876-5432", "home")
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal kind")
	}

	if _, numbers, masks, types := repo.Counts(); numbers != 0 || masks != 0 || types != 0 {
		t.Fatalf("expected rollback to drop mask and type, got %d numbers %d masks %d types", numbers, masks, types)
	}
	if len(bus.names()) != before {
		t.Fatalf("expected no event for a failed add")
	}
}

func TestAddPhoneNumberMaskFailureIsPersistenceError(t *testing.T) {
	svc, repo, _ := newTestService()
	c := mustCreate(t, svc, "Ada", "")

	repo.FailOn("FindOrCreateMask", errors.New("timeout"))
	_, err := svc.AddPhoneNumber(context.Background(), c.ID, "555-1234", "home")
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestFindContactsByNumber(t *testing.T) {
	svc, _, _ := newTestService()
	a := mustCreate(t, svc, "Ada", "")
	b := mustCreate(t, svc, "Alan", "")
	mustAdd(t, svc, b.ID, "555 123 4567", "home")
	mustAdd(t, svc, a.ID, "(555) 123-4567", "work")
	mustAdd(t, svc, a.ID, "555-000-1234", "mobile")

	ctx := context.Background()

	partial, err := svc.FindContactsByNumber(ctx, "1234", false)
	if err != nil {
		t.Fatalf("FindContactsByNumber returned error: %v", err)
	}
	if len(partial) != 2 || partial[0].ID != a.ID || partial[1].ID != b.ID {
		t.Fatalf("expected both contacts once in id order, got %+v", partial)
	}

	exact, _ := svc.FindContactsByNumber(ctx, "1234", true)
	if len(exact) != 0 {
		t.Fatalf("expected exact match on partial number to find nothing, got %d", len(exact))
	}

	exact, _ = svc.FindContactsByNumber(ctx, "+1 555.123.4567", true)
	if len(exact) != 0 {
		t.Fatalf("expected leading 1 to break exact match, got %d", len(exact))
	}

	exact, _ = svc.FindContactsByNumber(ctx, "555/123/4567", true)
	if len(exact) != 2 {
		t.Fatalf("expected exact canonical match for both contacts, got %d", len(exact))
	}

	none, err := svc.FindContactsByNumber(ctx, "no digits", false)
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty result without error, got %v, %v", none, err)
	}
}

func TestFindPhoneNumber(t *testing.T) {
	svc, _, _ := newTestService()
	c := mustCreate(t, svc, "Ada", "")
	mustAdd(t, svc, c.ID, "555-1234", "home")

	n, err := svc.FindPhoneNumber(context.Background(), "(555) 1234")
	if err != nil {
		t.Fatalf("FindPhoneNumber returned error: %v", err)
	}
	if n.ContactID != c.ID {
		t.Fatalf("expected owner %d, got %d", c.ID, n.ContactID)
	}

	if _, err := svc.FindPhoneNumber(context.Background(), "555"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for partial number, got %v", err)
	}
}

func TestUpdateContactCreatesWhenMissing(t *testing.T) {
	svc, _, bus := newTestService()
	mustCreate(t, svc, "Existing", "")

	result, err := svc.UpdateContact(context.Background(), 999, strPtr("A"), strPtr("B"))
	if err != nil {
		t.Fatalf("UpdateContact returned error: %v", err)
	}
	if !result.Created || result.Contact.ID == 999 {
		t.Fatalf("expected a new contact with a store-assigned id, got %+v", result)
	}
	if result.Contact.FirstName != "A" || result.Contact.LastName != "B" {
		t.Fatalf("unexpected names %+v", result.Contact)
	}

	names := bus.names()
	if names[len(names)-1] != "contacts.contact.created" {
		t.Fatalf("expected created event, got %v", names)
	}

	if _, err := svc.UpdateContact(context.Background(), 1000, nil, strPtr(" ")); !errors.Is(err, domain.ErrInvalidContact) {
		t.Fatalf("expected ErrInvalidContact when creating without names, got %v", err)
	}
}

func TestUpdateContactMergesNonNilFields(t *testing.T) {
	svc, _, bus := newTestService()
	c := mustCreate(t, svc, "Ada", "Byron")

	result, err := svc.UpdateContact(context.Background(), c.ID, strPtr("Augusta"), nil)
	if err != nil {
		t.Fatalf("UpdateContact returned error: %v", err)
	}
	if result.Created {
		t.Fatalf("expected merge, not create")
	}

	stored, _ := svc.FindContact(context.Background(), c.ID)
	if stored.FirstName != "Augusta" || stored.LastName != "Byron" {
		t.Fatalf("expected last name to be preserved, got %+v", stored)
	}

	names := bus.names()
	if names[len(names)-1] != "contacts.contact.updated" {
		t.Fatalf("expected updated event, got %v", names)
	}
}

func TestUpdateContactRechecksNamesAfterMerge(t *testing.T) {
	svc, _, _ := newTestService()
	c := mustCreate(t, svc, "Ada", "")

	_, err := svc.UpdateContact(context.Background(), c.ID, strPtr(""), nil)
	if !errors.Is(err, domain.ErrInvalidContact) {
		t.Fatalf("expected ErrInvalidContact, got %v", err)
	}

	stored, _ := svc.FindContact(context.Background(), c.ID)
	if stored.FirstName != "Ada" {
		t.Fatalf("expected contact to be unchanged, got %+v", stored)
	}

	// Clearing one name is fine while the other remains.
	d := mustCreate(t, svc, "Alan", "Turing")
	if _, err := svc.UpdateContact(context.Background(), d.ID, strPtr(""), nil); err != nil {
		t.Fatalf("expected clearing first name to succeed, got %v", err)
	}
}

func TestDeleteContactCascadesNumbers(t *testing.T) {
	svc, repo, _ := newTestService()
	owner := mustCreate(t, svc, "Ada", "")
	other := mustCreate(t, svc, "Alan", "")
	mustAdd(t, svc, owner.ID, "555-1234", "home")
	mustAdd(t, svc, owner.ID, "555-9876", "work")
	mustAdd(t, svc, other.ID, "555-0000", "home")

	deleted, err := svc.DeleteContact(context.Background(), owner.ID)
	if err != nil || !deleted {
		t.Fatalf("expected delete, got %v, %v", deleted, err)
	}

	contacts, numbers, masks, types := repo.Counts()
	if contacts != 1 || numbers != 1 {
		t.Fatalf("expected 1 contact and 1 number left, got %d and %d", contacts, numbers)
	}
	if masks != 1 || types != 2 {
		t.Fatalf("expected reference rows to remain, got %d masks %d types", masks, types)
	}

	if _, err := svc.FindContact(context.Background(), owner.ID); !errors.Is(err, domain.ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
	deleted, _ = svc.DeleteContact(context.Background(), owner.ID)
	if deleted {
		t.Fatalf("expected second delete to report false")
	}
}

func TestDeletePhoneNumberCanonicalizes(t *testing.T) {
	svc, _, _ := newTestService()
	c := mustCreate(t, svc, "Ada", "")
	mustAdd(t, svc, c.ID, "555-1234", "home")

	deleted, err := svc.DeletePhoneNumber(context.Background(), c.ID, "(555) 12 34")
	if err != nil || !deleted {
		t.Fatalf("expected delete, got %v, %v", deleted, err)
	}
	deleted, _ = svc.DeletePhoneNumber(context.Background(), c.ID, "555-1234")
	if deleted {
		t.Fatalf("expected second delete to report false")
	}
	deleted, _ = svc.DeletePhoneNumber(context.Background(), c.ID, "---")
	if deleted {
		t.Fatalf("expected input without digits to delete nothing")
	}
}

func TestFindAllContactsPersistenceError(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.FailOn("ListContacts", errors.New("connection refused"))

	_, err := svc.FindAllContacts(context.Background())
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestToPhoneNumberResponse(t *testing.T) {
	svc, _, _ := newTestService()

	resp := svc.ToPhoneNumberResponse(domain.PhoneNumber{
		ID:     3,
		Number: "6502530000",
		Mask:   domain.PhoneMask{Template: "(XXX) XXX-XXXX"},
		Type:   domain.PhoneType{Name: "work"},
	})
	if resp.Number != "(650) 253-0000" || resp.Canonical != "6502530000" {
		t.Fatalf("unexpected formatting %+v", resp)
	}
	if resp.E164 != "+16502530000" {
		t.Fatalf("expected US E.164 hint, got %q", resp.E164)
	}

	resp = svc.ToPhoneNumberResponse(domain.PhoneNumber{Number: "12", Mask: domain.PhoneMask{Template: "XX"}})
	if resp.E164 != "" {
		t.Fatalf("expected no hint for a short number, got %q", resp.E164)
	}
}
