package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"phonebook_backend/internal/contacts/domain"
	"phonebook_backend/internal/contacts/service"
	"phonebook_backend/platform/logger"
	"phonebook_backend/platform/validator"
)

// fixture is the YAML document accepted by the seed command:
//
//	contacts:
//	  - firstName: Ada
//	    lastName: Lovelace
//	    phoneNumbers:
//	      - number: "+44 (20) 7946-0958"
//	        type: work
type fixture struct {
	Contacts []fixtureContact `yaml:"contacts" validate:"dive"`
}

type fixtureContact struct {
	FirstName    string          `yaml:"firstName" validate:"max=45"`
	LastName     string          `yaml:"lastName" validate:"max=45"`
	PhoneNumbers []fixtureNumber `yaml:"phoneNumbers" validate:"dive"`
}

type fixtureNumber struct {
	Number string `yaml:"number" validate:"hasdigit"`
	Type   string `yaml:"type" validate:"notblank,max=45"`
}

type seedReport struct {
	Contacts int
	Numbers  int
	Skipped  int
}

func parseFixture(r io.Reader, val *validator.Validator) (fixture, error) {
	var f fixture
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	if err := val.Struct(f); err != nil {
		return fixture{}, fmt.Errorf("validate fixture: %v", validator.FieldErrors(err))
	}
	return f, nil
}

// seed creates every contact of f and attaches its numbers. Numbers that are
// already stored for any contact are skipped.
func seed(ctx context.Context, svc *service.Service, f fixture, log *logger.Logger) (seedReport, error) {
	var report seedReport

	for i, fc := range f.Contacts {
		contact, err := svc.CreateContact(ctx, fc.FirstName, fc.LastName)
		if err != nil {
			return report, fmt.Errorf("contact %d: %w", i, err)
		}
		report.Contacts++

		for _, fn := range fc.PhoneNumbers {
			existing, err := svc.FindPhoneNumber(ctx, fn.Number)
			switch {
			case err == nil:
				log.Info("skipping existing number", "number", fn.Number, "ownerId", existing.ContactID)
				report.Skipped++
				continue
			case !errors.Is(err, domain.ErrNotFound):
				return report, fmt.Errorf("contact %d: %w", i, err)
			}

			if _, err := svc.AddPhoneNumber(ctx, contact.ID, fn.Number, fn.Type); err != nil {
				return report, fmt.Errorf("contact %d number %q: %w", i, fn.Number, err)
			}
			report.Numbers++
		}
	}
	return report, nil
}
