package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"phonebook_backend/internal/contacts/domain"
)

// referenceTable describes a value-keyed lookup table with a UNIQUE value column.
type referenceTable struct {
	kind   string
	table  string
	column string
}

var (
	maskTable = referenceTable{kind: "phone mask", table: "phone_mask", column: "template"}
	typeTable = referenceTable{kind: "phone type", table: "phone_type", column: "name"}
)

// FindOrCreateMask returns the mask row for template.
func (r *Repo) FindOrCreateMask(ctx context.Context, template string, create bool) (domain.PhoneMask, error) {
	id, err := r.findOrCreate(ctx, maskTable, template, create)
	if err != nil {
		return domain.PhoneMask{}, err
	}
	return domain.PhoneMask{ID: id, Template: template}, nil
}

// FindOrCreateType returns the type row for name.
func (r *Repo) FindOrCreateType(ctx context.Context, name string, create bool) (domain.PhoneType, error) {
	id, err := r.findOrCreate(ctx, typeTable, name, create)
	if err != nil {
		return domain.PhoneType{}, err
	}
	return domain.PhoneType{ID: id, Name: name}, nil
}

// findOrCreate looks the value up and, when allowed, inserts it. The insert
// relies on the UNIQUE constraint: a concurrent creator makes ON CONFLICT skip
// the row, and the follow-up select returns the winner's id.
func (r *Repo) findOrCreate(ctx context.Context, ref referenceTable, value string, create bool) (int64, error) {
	selectQuery := fmt.Sprintf(`SELECT id FROM %s WHERE %s = $1`, ref.table, ref.column)

	var id int64
	err := r.q.QueryRow(ctx, selectQuery, value).Scan(&id)
	switch {
	case err == nil:
		return id, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return 0, fmt.Errorf("find %s: %w", ref.kind, err)
	case !create:
		return 0, domain.NotFound(ref.kind, value)
	}

	insertQuery := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES ($1) ON CONFLICT (%s) DO NOTHING RETURNING id`,
		ref.table, ref.column, ref.column,
	)
	err = r.q.QueryRow(ctx, insertQuery, value).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("create %s: %w", ref.kind, err)
	}

	if err := r.q.QueryRow(ctx, selectQuery, value).Scan(&id); err != nil {
		return 0, fmt.Errorf("reload %s: %w", ref.kind, err)
	}
	return id, nil
}
