package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ClientType discriminates the two client variants.
type ClientType string

const (
	ClientTypeNaturalPerson ClientType = "Natürliche Person"
	ClientTypeBusiness      ClientType = "Gewerbe"
)

// Valid reports whether t is a known client type.
func (t ClientType) Valid() bool {
	return t == ClientTypeNaturalPerson || t == ClientTypeBusiness
}

// LegalForm is the registered legal form of a business client.
type LegalForm string

// LegalForms lists every legal form a business client may have.
var LegalForms = []LegalForm{
	"Einzelunternehmen",
	"Aktiengesellschaft (AG)",
	"Gesellschaft bürgerlichen Rechts (GbR)",
	"Gesellschaft mit beschränkter Haftung (GmbH)",
	"GmbH & Co. KG",
	"Kommanditgesellschaft (KG)",
	"Offene Handelsgesellschaft (OHG)",
	"Partnerschaftsgesellschaft (PartG)",
	"Unternehmergesellschaft (UG)",
	"Stiftung",
}

// Valid reports whether f is a known legal form.
func (f LegalForm) Valid() bool {
	for _, known := range LegalForms {
		if f == known {
			return true
		}
	}
	return false
}

// ParticipantRole is the role a person holds in a business client.
type ParticipantRole string

// ParticipantRoles lists every participant role.
var ParticipantRoles = []ParticipantRole{
	"Einzelunternehmer",
	"Aktionär",
	"Vorstand",
	"Gesellschafter",
	"Geschäftsführender Gesellschafter",
	"Komplementär",
	"Kommanditist",
	"Partner",
	"Geschäftsführender Partner",
	"Geschäftsführer",
	"Stifter",
	"Destinatär",
}

// Valid reports whether r is a known participant role.
func (r ParticipantRole) Valid() bool {
	for _, known := range ParticipantRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Address is a postal address.
type Address struct {
	Zip    string `json:"zip,omitempty"`
	City   string `json:"city,omitempty"`
	Street string `json:"street,omitempty"`
	Number string `json:"number,omitempty"`
}

// TaxOffice is the Finanzamt responsible for a client, with its contact person.
type TaxOffice struct {
	Address
	Email             string `json:"email,omitempty"`
	Fax               string `json:"fax,omitempty"`
	ContactSalutation string `json:"contactSalutation,omitempty"`
	ContactLastName   string `json:"contactLastName,omitempty"`
	ContactPhone      string `json:"contactPhone,omitempty"`
	TaxCourt          string `json:"taxCourt,omitempty"`
}

// NaturalPerson holds the fields only natural persons have.
type NaturalPerson struct {
	Salutation string `json:"salutation,omitempty"`
	Title      string `json:"title,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`

	// BirthDate is an ISO date (YYYY-MM-DD).
	BirthDate string `json:"birthDate,omitempty"`

	// TaxID is the personal tax identifier (Steuer-ID).
	TaxID string `json:"taxId,omitempty"`
}

// Participant is a natural person holding a role in a business client.
type Participant struct {
	ID        string          `json:"id"`
	PersonID  string          `json:"personId"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Role      ParticipantRole `json:"role"`
}

// BusinessEntity holds the fields only business clients have.
type BusinessEntity struct {
	CompanyName string    `json:"companyName,omitempty"`
	LegalForm   LegalForm `json:"legalForm,omitempty"`

	// VATID is the VAT identifier (USt-ID).
	VATID string `json:"vatId,omitempty"`

	Participants []Participant `json:"participants,omitempty"`
}

// Client represents a Mandant.
// Exactly one of Person and Business is set, matching Type.
type Client struct {
	// ID is the unique identifier for the client (UUID format).
	ID   string     `json:"id"`
	Type ClientType `json:"type"`

	MandateManager     string    `json:"mandateManager,omitempty"`
	MandateResponsible string    `json:"mandateResponsible,omitempty"`
	Address            Address   `json:"address"`
	Email              string    `json:"email,omitempty"`
	TaxNumber          string    `json:"taxNumber,omitempty"`
	TaxOffice          TaxOffice `json:"taxOffice"`
	TaxCourt           string    `json:"taxCourt,omitempty"`

	Person   *NaturalPerson  `json:"person,omitempty"`
	Business *BusinessEntity `json:"business,omitempty"`

	// AdvisorID references the advising user; AdvisorName is denormalised for list views.
	AdvisorID   string `json:"advisorId,omitempty"`
	AdvisorName string `json:"advisorName,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var (
	ErrInvalidClientType = errors.New("invalid client type")
	ErrClientVariant     = errors.New("client variant does not match client type")
)

// Validate checks that enumerated values are known and that the populated
// variant matches the client type.
func (c *Client) Validate() error {
	if !c.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidClientType, c.Type)
	}
	switch c.Type {
	case ClientTypeNaturalPerson:
		if c.Business != nil || c.Person == nil {
			return ErrClientVariant
		}
	case ClientTypeBusiness:
		if c.Person != nil || c.Business == nil {
			return ErrClientVariant
		}
		if c.Business.LegalForm != "" && !c.Business.LegalForm.Valid() {
			return fmt.Errorf("invalid legal form: %q", c.Business.LegalForm)
		}
		for _, p := range c.Business.Participants {
			if !p.Role.Valid() {
				return fmt.Errorf("invalid participant role: %q", p.Role)
			}
		}
	}
	return nil
}

// DisplayName is the name shown in lists: "First Last" for persons,
// the company name for businesses.
func (c *Client) DisplayName() string {
	switch {
	case c.Person != nil:
		return strings.TrimSpace(c.Person.FirstName + " " + c.Person.LastName)
	case c.Business != nil:
		return c.Business.CompanyName
	default:
		return ""
	}
}

// LegalFormValue returns the legal form of a business client, or "".
func (c *Client) LegalFormValue() LegalForm {
	if c.Business == nil {
		return ""
	}
	return c.Business.LegalForm
}
