package domain

import (
	"errors"
	"fmt"

	"phonebook_backend/platform/apperr"
)

// Sentinels for errors.Is checks. Every error returned by the contacts
// service wraps one of these inside an *apperr.Error.
var (
	ErrInvalidNumber    = errors.New("invalid phone number")
	ErrContactNotFound  = errors.New("contact not found")
	ErrInvalidContact   = errors.New("invalid contact")
	ErrPersistence      = errors.New("persistence failure")
	ErrNotFound         = errors.New("not found")
	ErrInvalidPhoneType = errors.New("invalid phone type")
	ErrDuplicateNumber  = errors.New("duplicate phone number")
)

// Stable codes carried in error responses.
const (
	CodeInvalidNumber    = "INVALID_NUMBER"
	CodeContactNotFound  = "CONTACT_NOT_FOUND"
	CodeInvalidContact   = "INVALID_CONTACT"
	CodePersistence      = "PERSISTENCE_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidPhoneType = "INVALID_PHONE_TYPE"
	CodeDuplicateNumber  = "DUPLICATE_NUMBER"
)

// InvalidNumber reports raw input that cannot be stored as a phone number.
func InvalidNumber(reason string) *apperr.Error {
	return apperr.Wrap(apperr.KindValidation, reason, ErrInvalidNumber).WithCode(CodeInvalidNumber)
}

// ContactNotFound reports a missing contact.
func ContactNotFound(id int64) *apperr.Error {
	return apperr.Wrap(apperr.KindNotFound, "contact not found", ErrContactNotFound).
		WithCode(CodeContactNotFound).
		WithDetails(map[string]int64{"contactId": id})
}

// InvalidContact reports a contact that would end up without any name.
func InvalidContact() *apperr.Error {
	return apperr.Wrap(apperr.KindValidation, "contact needs a first or last name", ErrInvalidContact).
		WithCode(CodeInvalidContact)
}

// InvalidPhoneType reports a blank or oversized phone type name.
func InvalidPhoneType(reason string) *apperr.Error {
	return apperr.Wrap(apperr.KindValidation, reason, ErrInvalidPhoneType).WithCode(CodeInvalidPhoneType)
}

// NotFound reports a reference lookup miss, e.g. a phone mask, type or number.
func NotFound(kind, value string) *apperr.Error {
	return apperr.Wrap(apperr.KindNotFound, kind+" not found", ErrNotFound).
		WithCode(CodeNotFound).
		WithDetails(map[string]string{kind: value})
}

// DuplicateNumber reports a number that is already stored.
func DuplicateNumber(number string) *apperr.Error {
	return apperr.Wrap(apperr.KindConflict, "phone number already exists", ErrDuplicateNumber).
		WithCode(CodeDuplicateNumber).
		WithDetails(map[string]string{"number": number})
}

// Persistence wraps a failed store operation. Errors that already carry an
// *apperr.Error pass through unchanged.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	return apperr.Wrap(apperr.KindInternal, "persistence failure", fmt.Errorf("%w: %w", ErrPersistence, err)).
		WithOp(op).
		WithCode(CodePersistence)
}
