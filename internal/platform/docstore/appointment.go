package docstore

import "encoding/json"

// Appointment statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// AppointmentStatuses lists every valid appointment status.
var AppointmentStatuses = []string{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

// Appointment is one booking. Fields posted by clients outside the typed
// schema are kept in Extra and written back unchanged. Extra also holds the
// stored value of a typed key when it was not a non-empty string, so an
// empty or numeric value survives a read/write cycle.
type Appointment struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Doctor        string `json:"doctor,omitempty"`
	Date          string `json:"date,omitempty"`
	Time          string `json:"time,omitempty"`
	SpecialtyName string `json:"specialtyName,omitempty"`
	UserID        string `json:"userId,omitempty"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// AppointmentFields are the JSON keys owned by the typed schema.
var AppointmentFields = map[string]bool{
	"id": true, "name": true, "phone": true, "doctor": true, "date": true,
	"time": true, "specialtyName": true, "userId": true, "status": true,
	"createdAt": true, "updatedAt": true,
}

func (a *Appointment) fields() []field {
	return []field{
		{key: "id", val: &a.ID},
		{key: "name", val: &a.Name, omit: true},
		{key: "phone", val: &a.Phone, omit: true},
		{key: "doctor", val: &a.Doctor, omit: true},
		{key: "date", val: &a.Date, omit: true},
		{key: "time", val: &a.Time, omit: true},
		{key: "specialtyName", val: &a.SpecialtyName, omit: true},
		{key: "userId", val: &a.UserID, omit: true},
		{key: "status", val: &a.Status},
		{key: "createdAt", val: &a.CreatedAt},
		{key: "updatedAt", val: &a.UpdatedAt, omit: true},
	}
}

// Set assigns the typed field stored under key and reports whether key is
// one. An empty value is still written, since the client supplied the key.
func (a *Appointment) Set(key, value string) bool {
	for _, f := range a.fields() {
		if f.key != key {
			continue
		}
		*f.val = value
		if value == "" {
			if a.Extra == nil {
				a.Extra = make(map[string]json.RawMessage)
			}
			a.Extra[key] = json.RawMessage(`""`)
		} else {
			delete(a.Extra, key)
		}
		return true
	}
	return false
}

func (a Appointment) MarshalJSON() ([]byte, error) {
	fields := a.fields()
	var w objectWriter
	w.fields(fields, a.Extra)
	w.rest(fields, a.Extra)
	return w.finish(), nil
}

func (a *Appointment) UnmarshalJSON(data []byte) error {
	var out Appointment
	kept, err := decodeRecord(data, out.fields())
	if err != nil {
		return err
	}
	if len(kept) > 0 {
		out.Extra = kept
	}
	*a = out
	return nil
}

// Clone returns a deep copy, so callers can hand records out of a locked
// section without sharing state.
func (a *Appointment) Clone() *Appointment {
	c := *a
	c.Extra = cloneRaw(a.Extra)
	return &c
}

// SlotTaken reports whether a occupies the (doctor, date, time) slot.
// Cancelled appointments free their slot.
func (a *Appointment) SlotTaken(doctor, date, tm string) bool {
	return a.Status != StatusCancelled && a.Doctor == doctor && a.Date == date && a.Time == tm
}
