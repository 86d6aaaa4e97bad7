package transport

import "encoding/xml"

// Requests

// ContactRequest creates or updates a contact. On update a missing field keeps
// the stored value.
type ContactRequest struct {
	XMLName   xml.Name `json:"-" xml:"contact"`
	FirstName *string  `json:"firstName,omitempty" xml:"firstName" validate:"omitempty,max=45"`
	LastName  *string  `json:"lastName,omitempty" xml:"lastName" validate:"omitempty,max=45"`
}

// AddPhoneNumberRequest attaches a number, written in any format, to a contact.
type AddPhoneNumberRequest struct {
	XMLName xml.Name `json:"-" xml:"phoneNumber"`
	Number  string   `json:"number" xml:"number" validate:"required,max=100"`
	Type    string   `json:"type" xml:"type" validate:"max=45"`
}

// FindByNumberRequest searches contacts by number. Match requires the whole
// number to be equal; otherwise any contiguous run of digits matches.
type FindByNumberRequest struct {
	PhoneNumber string `form:"phone_number" validate:"required,max=100"`
	Match       bool   `form:"match"`
}

// Responses

type PhoneNumberResponse struct {
	XMLName   xml.Name `json:"-" xml:"phoneNumber"`
	ID        int64    `json:"id" xml:"id,attr"`
	Number    string   `json:"number" xml:"number"`
	Canonical string   `json:"canonical" xml:"canonical"`
	Type      string   `json:"type" xml:"type"`
	E164      string   `json:"e164,omitempty" xml:"e164,omitempty"`
}

type ContactResponse struct {
	XMLName      xml.Name              `json:"-" xml:"contact"`
	ID           int64                 `json:"id" xml:"id"`
	FirstName    string                `json:"firstName,omitempty" xml:"firstName,omitempty"`
	LastName     string                `json:"lastName,omitempty" xml:"lastName,omitempty"`
	PhoneNumbers []PhoneNumberResponse `json:"phoneNumbers" xml:"phoneNumbers>phoneNumber"`
}

type ContactListResponse struct {
	XMLName  xml.Name          `json:"-" xml:"contacts"`
	Contacts []ContactResponse `json:"contacts" xml:"contact"`
}
