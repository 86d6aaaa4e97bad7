// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"encoding/xml"
	"net/http"

	"phonebook_backend/platform/apperr"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var offeredFormats = []string{binding.MIMEJSON, binding.MIMEXML, binding.MIMEXML2}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	XMLName xml.Name    `json:"-" xml:"error"`
	Error   string      `json:"error" xml:"message"`
	Code    string      `json:"code,omitempty" xml:"code,omitempty"`
	Details interface{} `json:"details,omitempty" xml:"-"`
}

// Respond writes payload as XML when the client asks for it through Accept,
// and as JSON otherwise.
func Respond(c *gin.Context, status int, payload interface{}) {
	switch c.NegotiateFormat(offeredFormats...) {
	case binding.MIMEXML, binding.MIMEXML2:
		c.XML(status, payload)
	default:
		c.JSON(status, payload)
	}
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string, details interface{}) {
	Respond(c, status, ErrorResponse{Error: message, Details: details})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	Respond(c, http.StatusOK, payload)
}

// Created sends 201 with a Location header. A nil payload produces an empty body.
func Created(c *gin.Context, location string, payload interface{}) {
	if location != "" {
		c.Header("Location", location)
	}
	if payload == nil {
		c.Status(http.StatusCreated)
		return
	}
	Respond(c, http.StatusCreated, payload)
}

// NoContent sends 204 with no body.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// HandleError maps domain errors to HTTP responses.
// If the chain carries an *apperr.Error, its Kind selects the HTTP status code.
// Anything else is an unexpected failure and answers 500 without leaking the cause.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := apperr.As(err); ok {
		status := domainErr.HTTPStatus()
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		Respond(c, status, ErrorResponse{
			Error:   domainErr.Message,
			Code:    domainErr.Code,
			Details: domainErr.Details,
		})
		return true
	}

	_ = c.Error(err)
	Respond(c, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	return true
}
