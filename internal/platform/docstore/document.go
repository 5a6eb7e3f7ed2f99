// Package docstore persists the whole application state as one JSON document.
//
// Every operation loads the document from a Backend, applies a single
// mutation and writes the document back in full. The Store serializes those
// cycles inside one process; see Store.Update.
package docstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Document is the root object held by a Backend.
type Document struct {
	Appointments   []*Appointment   `json:"appointments"`
	Users          []*User          `json:"users"`
	SupportTickets []*SupportTicket `json:"support_tickets"`
	// Doctors is nil when the stored document has no "doctors" key. Readers
	// fall back to the default directory; writers materialize it.
	Doctors *Directory `json:"doctors,omitempty"`
}

// NewDocument returns a document with empty collections and no directory.
func NewDocument() *Document {
	return &Document{
		Appointments:   []*Appointment{},
		Users:          []*User{},
		SupportTickets: []*SupportTicket{},
	}
}

// normalize replaces absent collections with empty ones so that they are
// written as [] rather than null.
func (d *Document) normalize() {
	if d.Appointments == nil {
		d.Appointments = []*Appointment{}
	}
	if d.Users == nil {
		d.Users = []*User{}
	}
	if d.SupportTickets == nil {
		d.SupportTickets = []*SupportTicket{}
	}
}

// Decode parses a stored document. Absent collections decode as empty.
func Decode(data []byte) (*Document, error) {
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	doc.normalize()
	return doc, nil
}

// Encode serializes the document with two-space indentation.
func Encode(doc *Document) ([]byte, error) {
	doc.normalize()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Timestamp formats t the way records store it: UTC, millisecond precision.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// NewID returns a time-based id (decimal Unix milliseconds). When taken
// reports the candidate as used, the value is bumped until it is free.
func NewID(now time.Time, taken func(id string) bool) string {
	v := now.UnixMilli()
	for {
		id := strconv.FormatInt(v, 10)
		if taken == nil || !taken(id) {
			return id
		}
		v++
	}
}
