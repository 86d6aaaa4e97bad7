package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"phonebook_backend/internal/contacts/domain"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo implements Repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	q    querier
}

// New creates a new contacts repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool, q: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// InTx runs fn inside a transaction. A Repo that is already bound to a
// transaction runs fn in that same transaction.
func (r *Repo) InTx(ctx context.Context, fn func(tx Repository) error) error {
	if r.pool == nil {
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&Repo{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ListContacts returns all contacts ordered by id.
func (r *Repo) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	query := `
		SELECT id, COALESCE(first_name, ''), COALESCE(last_name, '')
		FROM contact
		ORDER BY id`

	return r.loadContacts(ctx, query)
}

// GetContact returns one contact with its phone numbers.
func (r *Repo) GetContact(ctx context.Context, id int64) (domain.Contact, error) {
	query := `
		SELECT id, COALESCE(first_name, ''), COALESCE(last_name, '')
		FROM contact
		WHERE id = $1`

	var c domain.Contact
	if err := r.q.QueryRow(ctx, query, id).Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Contact{}, domain.ContactNotFound(id)
		}
		return domain.Contact{}, fmt.Errorf("get contact: %w", err)
	}

	numbers, err := r.numbersFor(ctx, []int64{id})
	if err != nil {
		return domain.Contact{}, err
	}
	c.PhoneNumbers = numbers[id]
	return c, nil
}

// GetContacts returns the contacts with the given ids ordered by id.
func (r *Repo) GetContacts(ctx context.Context, ids []int64) ([]domain.Contact, error) {
	if len(ids) == 0 {
		return []domain.Contact{}, nil
	}

	query := `
		SELECT id, COALESCE(first_name, ''), COALESCE(last_name, '')
		FROM contact
		WHERE id = ANY($1)
		ORDER BY id`

	return r.loadContacts(ctx, query, ids)
}

// CreateContact inserts a contact. Empty names are stored as NULL.
func (r *Repo) CreateContact(ctx context.Context, firstName, lastName string) (domain.Contact, error) {
	query := `
		INSERT INTO contact (first_name, last_name)
		VALUES (NULLIF($1, ''), NULLIF($2, ''))
		RETURNING id`

	c := domain.Contact{FirstName: firstName, LastName: lastName, PhoneNumbers: []domain.PhoneNumber{}}
	if err := r.q.QueryRow(ctx, query, firstName, lastName).Scan(&c.ID); err != nil {
		return domain.Contact{}, fmt.Errorf("create contact: %w", err)
	}
	return c, nil
}

// UpdateContact overwrites both names of an existing contact.
func (r *Repo) UpdateContact(ctx context.Context, contact domain.Contact) error {
	query := `
		UPDATE contact
		SET first_name = NULLIF($2, ''), last_name = NULLIF($3, '')
		WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, contact.ID, contact.FirstName, contact.LastName)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ContactNotFound(contact.ID)
	}
	return nil
}

// DeleteContact deletes a contact; its numbers go with it through ON DELETE CASCADE.
func (r *Repo) DeleteContact(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM contact WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete contact: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// InsertPhoneNumber stores a canonical number for its contact.
func (r *Repo) InsertPhoneNumber(ctx context.Context, number domain.PhoneNumber) (domain.PhoneNumber, error) {
	query := `
		INSERT INTO phone_number (contact_id, phone_number, phone_mask_id, phone_type_id)
		VALUES ($1, $2, $3, $4)
		RETURNING phone_number_id`

	if err := r.q.QueryRow(ctx, query,
		number.ContactID, number.Number, number.Mask.ID, number.Type.ID,
	).Scan(&number.ID); err != nil {
		return domain.PhoneNumber{}, fmt.Errorf("insert phone number: %w", err)
	}
	return number, nil
}

// DeletePhoneNumber removes a contact's rows for a canonical number.
func (r *Repo) DeletePhoneNumber(ctx context.Context, contactID int64, canonical string) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM phone_number WHERE contact_id = $1 AND phone_number = $2`,
		contactID, canonical,
	)
	if err != nil {
		return false, fmt.Errorf("delete phone number: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// FindPhoneNumbers matches stored numbers by equality or by contiguous substring.
func (r *Repo) FindPhoneNumbers(ctx context.Context, canonical string, exact bool) ([]domain.PhoneNumber, error) {
	condition := `position($1 in pn.phone_number) > 0`
	if exact {
		condition = `pn.phone_number = $1`
	}

	query := phoneNumberSelect + `
		WHERE ` + condition + `
		ORDER BY pn.contact_id, pn.phone_number_id`

	rows, err := r.q.Query(ctx, query, canonical)
	if err != nil {
		return nil, fmt.Errorf("find phone numbers: %w", err)
	}
	defer rows.Close()

	return scanPhoneNumbers(rows)
}

const phoneNumberSelect = `
		SELECT pn.phone_number_id, pn.contact_id, pn.phone_number,
			pm.id, pm.template, pt.id, pt.name
		FROM phone_number pn
		JOIN phone_mask pm ON pm.id = pn.phone_mask_id
		JOIN phone_type pt ON pt.id = pn.phone_type_id`

func (r *Repo) loadContacts(ctx context.Context, query string, args ...any) ([]domain.Contact, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]domain.Contact, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}

	numbers, err := r.numbersFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		contacts[i].PhoneNumbers = numbers[contacts[i].ID]
	}
	return contacts, nil
}

func (r *Repo) numbersFor(ctx context.Context, contactIDs []int64) (map[int64][]domain.PhoneNumber, error) {
	byContact := make(map[int64][]domain.PhoneNumber, len(contactIDs))
	for _, id := range contactIDs {
		byContact[id] = []domain.PhoneNumber{}
	}
	if len(contactIDs) == 0 {
		return byContact, nil
	}

	query := phoneNumberSelect + `
		WHERE pn.contact_id = ANY($1)
		ORDER BY pn.contact_id, pn.phone_number_id`

	rows, err := r.q.Query(ctx, query, contactIDs)
	if err != nil {
		return nil, fmt.Errorf("list phone numbers: %w", err)
	}
	defer rows.Close()

	numbers, err := scanPhoneNumbers(rows)
	if err != nil {
		return nil, err
	}
	for _, n := range numbers {
		byContact[n.ContactID] = append(byContact[n.ContactID], n)
	}
	return byContact, nil
}

func scanPhoneNumbers(rows pgx.Rows) ([]domain.PhoneNumber, error) {
	numbers := make([]domain.PhoneNumber, 0)
	for rows.Next() {
		var n domain.PhoneNumber
		if err := rows.Scan(
			&n.ID, &n.ContactID, &n.Number,
			&n.Mask.ID, &n.Mask.Template, &n.Type.ID, &n.Type.Name,
		); err != nil {
			return nil, fmt.Errorf("scan phone number: %w", err)
		}
		numbers = append(numbers, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate phone numbers: %w", err)
	}
	return numbers, nil
}
