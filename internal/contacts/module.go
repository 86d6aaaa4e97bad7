// Package contacts provides the phonebook bounded context module.
package contacts

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"phonebook_backend/internal/contacts/handler"
	"phonebook_backend/internal/contacts/repository"
	"phonebook_backend/internal/contacts/service"
	"phonebook_backend/internal/events"
	apphttp "phonebook_backend/internal/http"
	"phonebook_backend/platform/config"
	"phonebook_backend/platform/logger"
	"phonebook_backend/platform/validator"
)

// Module is the contacts bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the contacts module on PostgreSQL.
func NewModule(pool *pgxpool.Pool, bus events.Publisher, val *validator.Validator, cfg config.PhoneConfig, log *logger.Logger) *Module {
	return NewModuleWithRepository(repository.New(pool), bus, val, cfg, log)
}

// NewModuleWithRepository creates the contacts module on any repository.
func NewModuleWithRepository(repo repository.Repository, bus events.Publisher, val *validator.Validator, cfg config.PhoneConfig, log *logger.Logger) *Module {
	svc := service.New(repo, bus, cfg.GetPhoneDefaultRegion(), log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "contacts"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts contact routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/contacts", m.handler.ListContacts)
	ctx.V1.GET("/contacts/find_by_number", m.handler.FindByNumber)

	ctx.V1.POST("/contact", m.handler.CreateContact)
	ctx.V1.GET("/contact/:id", m.handler.GetContact)
	ctx.V1.PUT("/contact/:id", m.handler.UpdateContact)
	ctx.V1.DELETE("/contact/:id", m.handler.DeleteContact)
	ctx.V1.POST("/contact/:id/add_number", m.handler.AddPhoneNumber)
	ctx.V1.DELETE("/contact/:id/:phone_number", m.handler.DeletePhoneNumber)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
