package docstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Doctor is a directory entry. IDs are unique across all specialties.
type Doctor struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Experience string `json:"experience"`

	kept map[string]json.RawMessage
}

func (d *Doctor) fields() []field {
	return []field{
		{key: "name", val: &d.Name},
		{key: "experience", val: &d.Experience},
	}
}

func (d Doctor) MarshalJSON() ([]byte, error) {
	fields := d.fields()
	var w objectWriter
	if v, ok := d.kept["id"]; ok {
		w.raw("id", v)
	} else {
		w.raw("id", []byte(strconv.Itoa(d.ID)))
	}
	w.fields(fields, d.kept)
	w.rest(fields, d.kept, "id")
	return w.finish(), nil
}

// UnmarshalJSON reads a directory entry. An id that is not an integer is
// kept as stored and reads as 0.
func (d *Doctor) UnmarshalJSON(data []byte) error {
	var out Doctor
	kept, err := decodeRecord(data, out.fields())
	if err != nil {
		return err
	}
	if v, ok := kept["id"]; ok {
		if err := json.Unmarshal(v, &out.ID); err == nil {
			delete(kept, "id")
		}
	}
	if len(kept) > 0 {
		out.kept = kept
	}
	*d = out
	return nil
}

// Directory maps specialty keys to their doctors. Specialty order is kept
// as stored so that a read/write cycle does not reorder the document.
type Directory struct {
	order   []string
	buckets map[string][]Doctor
}

func NewDirectory() *Directory {
	return &Directory{buckets: map[string][]Doctor{}}
}

// Specialties returns the specialty keys in stored order.
func (d *Directory) Specialties() []string {
	return append([]string(nil), d.order...)
}

// Doctors returns a copy of the doctors listed under specialty.
func (d *Directory) Doctors(specialty string) ([]Doctor, bool) {
	docs, ok := d.buckets[specialty]
	if !ok {
		return nil, false
	}
	return append([]Doctor{}, docs...), true
}

// Set replaces the doctors of specialty, adding the key if it is new.
func (d *Directory) Set(specialty string, docs []Doctor) {
	if d.buckets == nil {
		d.buckets = map[string][]Doctor{}
	}
	if _, ok := d.buckets[specialty]; !ok {
		d.order = append(d.order, specialty)
	}
	if docs == nil {
		docs = []Doctor{}
	}
	d.buckets[specialty] = docs
}

// MaxID returns the highest doctor id across every specialty, or 0.
func (d *Directory) MaxID() int {
	max := 0
	for _, docs := range d.buckets {
		for _, doc := range docs {
			if doc.ID > max {
				max = doc.ID
			}
		}
	}
	return max
}

// Len returns the number of specialties.
func (d *Directory) Len() int { return len(d.order) }

func (d *Directory) Clone() *Directory {
	c := NewDirectory()
	for _, s := range d.order {
		c.Set(s, append([]Doctor{}, d.buckets[s]...))
	}
	return c
}

func (d *Directory) MarshalJSON() ([]byte, error) {
	var w objectWriter
	for _, s := range d.order {
		list := []byte{'['}
		for i, doc := range d.buckets[s] {
			if i > 0 {
				list = append(list, ',')
			}
			b, err := doc.MarshalJSON()
			if err != nil {
				return nil, err
			}
			list = append(list, b...)
		}
		list = append(list, ']')
		w.raw(s, list)
	}
	return w.finish(), nil
}

func (d *Directory) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("doctors: expected object, got %v", tok)
	}

	out := NewDirectory()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("doctors: expected specialty key, got %v", tok)
		}
		var docs []Doctor
		if err := dec.Decode(&docs); err != nil {
			return fmt.Errorf("doctors[%s]: %w", key, err)
		}
		out.Set(key, docs)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = *out
	return nil
}
