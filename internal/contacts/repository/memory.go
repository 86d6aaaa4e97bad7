package repository

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"phonebook_backend/internal/contacts/domain"
)

// Memory is an in-process Repository used by tests and by the seed command's
// dry-run mode. It is safe for concurrent use; transactions work on a copy of
// the state that replaces the original only on commit.
type Memory struct {
	mu       sync.Mutex
	state    *memState
	failures map[string]error
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{state: newMemState(), failures: make(map[string]error)}
}

// Compile-time check that Memory implements Repository.
var _ Repository = (*Memory)(nil)

// FailOn makes the next call of the named operation (e.g. "InsertPhoneNumber")
// return err. Used to exercise rollback paths.
func (m *Memory) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = err
}

// Counts reports how many rows each table holds.
func (m *Memory) Counts() (contacts, numbers, masks, types int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.contacts), len(m.state.numbers), len(m.state.masks), len(m.state.types)
}

// InTx runs fn on a copy of the state and keeps the copy only if fn succeeds.
func (m *Memory) InTx(ctx context.Context, fn func(tx Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft := m.state.clone()
	if err := fn(&memTx{state: draft, failures: m.failures}); err != nil {
		return err
	}
	m.state = draft
	return nil
}

func (m *Memory) view() *memTx {
	return &memTx{state: m.state, failures: m.failures}
}

func (m *Memory) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().ListContacts(ctx)
}

func (m *Memory) GetContact(ctx context.Context, id int64) (domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().GetContact(ctx, id)
}

func (m *Memory) GetContacts(ctx context.Context, ids []int64) ([]domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().GetContacts(ctx, ids)
}

func (m *Memory) CreateContact(ctx context.Context, firstName, lastName string) (domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().CreateContact(ctx, firstName, lastName)
}

func (m *Memory) UpdateContact(ctx context.Context, contact domain.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().UpdateContact(ctx, contact)
}

func (m *Memory) DeleteContact(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().DeleteContact(ctx, id)
}

func (m *Memory) FindOrCreateMask(ctx context.Context, template string, create bool) (domain.PhoneMask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().FindOrCreateMask(ctx, template, create)
}

func (m *Memory) FindOrCreateType(ctx context.Context, name string, create bool) (domain.PhoneType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().FindOrCreateType(ctx, name, create)
}

func (m *Memory) InsertPhoneNumber(ctx context.Context, number domain.PhoneNumber) (domain.PhoneNumber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertPhoneNumber(ctx, number)
}

func (m *Memory) DeletePhoneNumber(ctx context.Context, contactID int64, canonical string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().DeletePhoneNumber(ctx, contactID, canonical)
}

func (m *Memory) FindPhoneNumbers(ctx context.Context, canonical string, exact bool) ([]domain.PhoneNumber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().FindPhoneNumbers(ctx, canonical, exact)
}

type memContact struct {
	id        int64
	firstName string
	lastName  string
}

type memState struct {
	contacts []memContact
	numbers  []domain.PhoneNumber
	masks    []domain.PhoneMask
	types    []domain.PhoneType
	nextID   map[string]int64
}

func newMemState() *memState {
	return &memState{nextID: make(map[string]int64)}
}

// clone copies the rows but shares the id counters, so ids handed out inside
// a rolled back transaction are never reused, as with database sequences.
func (s *memState) clone() *memState {
	return &memState{
		contacts: slices.Clone(s.contacts),
		numbers:  slices.Clone(s.numbers),
		masks:    slices.Clone(s.masks),
		types:    slices.Clone(s.types),
		nextID:   s.nextID,
	}
}

func (s *memState) allocate(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

// memTx operates on a state without locking; the caller holds the lock.
type memTx struct {
	state    *memState
	failures map[string]error
}

func (t *memTx) fail(op string) error {
	if err, ok := t.failures[op]; ok {
		delete(t.failures, op)
		return err
	}
	return nil
}

func (t *memTx) InTx(_ context.Context, fn func(tx Repository) error) error {
	return fn(t)
}

func (t *memTx) ListContacts(_ context.Context) ([]domain.Contact, error) {
	if err := t.fail("ListContacts"); err != nil {
		return nil, err
	}
	out := make([]domain.Contact, 0, len(t.state.contacts))
	for _, c := range t.state.contacts {
		out = append(out, t.hydrate(c))
	}
	return out, nil
}

func (t *memTx) GetContact(_ context.Context, id int64) (domain.Contact, error) {
	if err := t.fail("GetContact"); err != nil {
		return domain.Contact{}, err
	}
	idx := t.contactIndex(id)
	if idx < 0 {
		return domain.Contact{}, domain.ContactNotFound(id)
	}
	return t.hydrate(t.state.contacts[idx]), nil
}

func (t *memTx) GetContacts(_ context.Context, ids []int64) ([]domain.Contact, error) {
	if err := t.fail("GetContacts"); err != nil {
		return nil, err
	}
	out := make([]domain.Contact, 0, len(ids))
	for _, c := range t.state.contacts {
		if slices.Contains(ids, c.id) {
			out = append(out, t.hydrate(c))
		}
	}
	return out, nil
}

func (t *memTx) CreateContact(_ context.Context, firstName, lastName string) (domain.Contact, error) {
	if err := t.fail("CreateContact"); err != nil {
		return domain.Contact{}, err
	}
	c := memContact{id: t.state.allocate("contact"), firstName: firstName, lastName: lastName}
	t.state.contacts = append(t.state.contacts, c)
	return t.hydrate(c), nil
}

func (t *memTx) UpdateContact(_ context.Context, contact domain.Contact) error {
	if err := t.fail("UpdateContact"); err != nil {
		return err
	}
	idx := t.contactIndex(contact.ID)
	if idx < 0 {
		return domain.ContactNotFound(contact.ID)
	}
	t.state.contacts[idx].firstName = contact.FirstName
	t.state.contacts[idx].lastName = contact.LastName
	return nil
}

func (t *memTx) DeleteContact(_ context.Context, id int64) (bool, error) {
	if err := t.fail("DeleteContact"); err != nil {
		return false, err
	}
	idx := t.contactIndex(id)
	if idx < 0 {
		return false, nil
	}
	t.state.contacts = slices.Delete(t.state.contacts, idx, idx+1)
	t.state.numbers = slices.DeleteFunc(t.state.numbers, func(n domain.PhoneNumber) bool {
		return n.ContactID == id
	})
	return true, nil
}

func (t *memTx) FindOrCreateMask(_ context.Context, template string, create bool) (domain.PhoneMask, error) {
	if err := t.fail("FindOrCreateMask"); err != nil {
		return domain.PhoneMask{}, err
	}
	for _, m := range t.state.masks {
		if m.Template == template {
			return m, nil
		}
	}
	if !create {
		return domain.PhoneMask{}, domain.NotFound("phone mask", template)
	}
	m := domain.PhoneMask{ID: t.state.allocate("phone_mask"), Template: template}
	t.state.masks = append(t.state.masks, m)
	return m, nil
}

func (t *memTx) FindOrCreateType(_ context.Context, name string, create bool) (domain.PhoneType, error) {
	if err := t.fail("FindOrCreateType"); err != nil {
		return domain.PhoneType{}, err
	}
	for _, pt := range t.state.types {
		if pt.Name == name {
			return pt, nil
		}
	}
	if !create {
		return domain.PhoneType{}, domain.NotFound("phone type", name)
	}
	pt := domain.PhoneType{ID: t.state.allocate("phone_type"), Name: name}
	t.state.types = append(t.state.types, pt)
	return pt, nil
}

func (t *memTx) InsertPhoneNumber(_ context.Context, number domain.PhoneNumber) (domain.PhoneNumber, error) {
	if err := t.fail("InsertPhoneNumber"); err != nil {
		return domain.PhoneNumber{}, err
	}
	if t.contactIndex(number.ContactID) < 0 {
		return domain.PhoneNumber{}, domain.ContactNotFound(number.ContactID)
	}
	number.ID = t.state.allocate("phone_number")
	t.state.numbers = append(t.state.numbers, number)
	return number, nil
}

func (t *memTx) DeletePhoneNumber(_ context.Context, contactID int64, canonical string) (bool, error) {
	if err := t.fail("DeletePhoneNumber"); err != nil {
		return false, err
	}
	before := len(t.state.numbers)
	t.state.numbers = slices.DeleteFunc(t.state.numbers, func(n domain.PhoneNumber) bool {
		return n.ContactID == contactID && n.Number == canonical
	})
	return len(t.state.numbers) < before, nil
}

func (t *memTx) FindPhoneNumbers(_ context.Context, canonical string, exact bool) ([]domain.PhoneNumber, error) {
	if err := t.fail("FindPhoneNumbers"); err != nil {
		return nil, err
	}
	out := make([]domain.PhoneNumber, 0)
	for _, n := range t.state.numbers {
		if (exact && n.Number == canonical) || (!exact && strings.Contains(n.Number, canonical)) {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.PhoneNumber) int {
		if a.ContactID != b.ContactID {
			return cmp.Compare(a.ContactID, b.ContactID)
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (t *memTx) contactIndex(id int64) int {
	return slices.IndexFunc(t.state.contacts, func(c memContact) bool { return c.id == id })
}

func (t *memTx) hydrate(c memContact) domain.Contact {
	numbers := make([]domain.PhoneNumber, 0)
	for _, n := range t.state.numbers {
		if n.ContactID == c.id {
			numbers = append(numbers, n)
		}
	}
	return domain.Contact{ID: c.id, FirstName: c.firstName, LastName: c.lastName, PhoneNumbers: numbers}
}
