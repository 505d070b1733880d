package entities

import (
	"fmt"
	"time"
)

// Status describes the verification state of a domain's certificate.
type Status string

// Statuses a certificate record may carry. Pending only ever exists
// locally, between an optimistic add and its verification result;
// it is never produced by a full verification sweep.
const (
	StatusOK           Status = "OK"
	StatusExpiringSoon Status = "ExpiringSoon"
	StatusExpired      Status = "Expired"
	StatusError        Status = "Error"
	StatusPending      Status = "Pending"
)

// Terminal reports whether the status is a settled verification result.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// Certificate is a single domain's certificate record. Domain is the
// unique key; the optional fields are meaningful only for the statuses
// noted on each, which Validate enforces.
type Certificate struct {
	Domain       string     `json:"domain"`
	Status       Status     `json:"status"`
	DaysLeft     *int       `json:"days_left,omitempty"`     // OK, ExpiringSoon, Expired
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`   // OK, ExpiringSoon, Expired
	ErrorMessage string     `json:"error_message,omitempty"` // Error
}

// WithExpiry builds a record for a successfully inspected certificate.
// Status must be one of OK, ExpiringSoon or Expired.
func WithExpiry(domain string, status Status, daysLeft int, expiryDate time.Time) Certificate {
	return Certificate{
		Domain:     domain,
		Status:     status,
		DaysLeft:   &daysLeft,
		ExpiryDate: &expiryDate,
	}
}

// Errored builds a record for a failed verification.
func Errored(domain, message string) Certificate {
	return Certificate{
		Domain:       domain,
		Status:       StatusError,
		ErrorMessage: message,
	}
}

// Placeholder builds the transient record shown while a freshly added
// domain awaits its first verification result.
func Placeholder(domain string) Certificate {
	return Certificate{
		Domain: domain,
		Status: StatusPending,
	}
}

// Validate checks the status/attribute coupling: expiry fields only on
// OK/ExpiringSoon/Expired, an error message only on Error.
func (c Certificate) Validate() error {
	if c.Domain == "" {
		return fmt.Errorf("certificate has empty domain")
	}

	switch c.Status {
	case StatusOK, StatusExpiringSoon, StatusExpired:
		if c.DaysLeft == nil || c.ExpiryDate == nil {
			return fmt.Errorf("%q: status %s requires days_left and expiry_date", c.Domain, c.Status)
		}
		if c.ErrorMessage != "" {
			return fmt.Errorf("%q: status %s cannot carry an error message", c.Domain, c.Status)
		}
	case StatusError:
		if c.DaysLeft != nil || c.ExpiryDate != nil {
			return fmt.Errorf("%q: status %s cannot carry expiry fields", c.Domain, c.Status)
		}
	case StatusPending:
		if c.DaysLeft != nil || c.ExpiryDate != nil || c.ErrorMessage != "" {
			return fmt.Errorf("%q: pending records carry no attributes", c.Domain)
		}
	default:
		return fmt.Errorf("%q: unknown status %q", c.Domain, c.Status)
	}

	return nil
}
