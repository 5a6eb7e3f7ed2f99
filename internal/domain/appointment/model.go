package appointment

import (
	"encoding/json"
	"fmt"

	"github.com/medbook/medbook/internal/platform/apperr"
	"github.com/medbook/medbook/internal/platform/docstore"
)

// Stats summarizes appointments by status and specialty.
type Stats struct {
	Total       int            `json:"total"`
	Pending     int            `json:"pending"`
	Confirmed   int            `json:"confirmed"`
	Cancelled   int            `json:"cancelled"`
	Completed   int            `json:"completed"`
	BySpecialty map[string]int `json:"bySpecialty"`
}

// UnspecifiedSpecialty buckets appointments without a specialtyName.
const UnspecifiedSpecialty = "unspecified"

// Patch holds the fields a client may change. Nil fields are left alone.
type Patch struct {
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	Doctor        *string `json:"doctor"`
	Date          *string `json:"date"`
	Time          *string `json:"time"`
	SpecialtyName *string `json:"specialtyName"`
	Status        *string `json:"status"`
	UserID        *string `json:"userId"`
}

func (p *Patch) validate() error {
	if p.Status == nil {
		return nil
	}
	for _, s := range docstore.AppointmentStatuses {
		if *p.Status == s {
			return nil
		}
	}
	return apperr.Validation(fmt.Sprintf("invalid status %q", *p.Status))
}

func (p *Patch) apply(a *docstore.Appointment) {
	set := func(key string, src *string) {
		if src != nil {
			a.Set(key, *src)
		}
	}
	set("name", p.Name)
	set("phone", p.Phone)
	set("doctor", p.Doctor)
	set("date", p.Date)
	set("time", p.Time)
	set("specialtyName", p.SpecialtyName)
	set("status", p.Status)
	set("userId", p.UserID)
}

type AvailabilityRequest struct {
	Doctor string `json:"doctor"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

type DeleteResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// serverFields are assigned by the service and ignored when posted.
var serverFields = map[string]bool{"id": true, "status": true, "createdAt": true, "updatedAt": true}

// fromFields builds an appointment from a posted JSON object. Typed fields
// must be strings (null counts as absent) and are kept even when empty; any
// other key is kept verbatim.
func fromFields(fields map[string]json.RawMessage) (*docstore.Appointment, error) {
	a := &docstore.Appointment{}
	for key, raw := range fields {
		if serverFields[key] {
			continue
		}
		if !docstore.AppointmentFields[key] {
			if a.Extra == nil {
				a.Extra = make(map[string]json.RawMessage)
			}
			a.Extra[key] = append(json.RawMessage(nil), raw...)
			continue
		}
		if string(raw) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, apperr.Validation(fmt.Sprintf("%s must be a string", key))
		}
		a.Set(key, s)
	}
	return a, nil
}
