package docstore

import (
	"bytes"
	"encoding/json"
	"sort"
)

// field binds a JSON key of a record to one of its string fields. Fields
// marked omit are left out when empty, unless the stored record had the key.
type field struct {
	key  string
	val  *string
	omit bool
}

// decodeRecord reads a JSON object into fields and returns the values it
// keeps raw: unknown keys, plus typed keys whose stored value is not a
// non-empty string. Records written by older clients may hold numbers or
// null where a string is expected; those are written back unchanged, and a
// number also sets its field to the literal text so lookups still match.
func decodeRecord(data []byte, fields []field) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for _, f := range fields {
		v, ok := raw[f.key]
		if !ok {
			continue
		}
		s, plain := looseString(v)
		*f.val = s
		if plain && s != "" {
			delete(raw, f.key)
		}
	}
	return raw, nil
}

// looseString returns the text a raw value stands for and whether it was a
// JSON string.
func looseString(v json.RawMessage) (string, bool) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return "", false
	}
	c := v[0]
	if c == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", false
		}
		return s, true
	}
	if c == '-' || (c >= '0' && c <= '9') {
		return string(v), false
	}
	return "", false
}

func isTyped(fields []field, key string) bool {
	for _, f := range fields {
		if f.key == key {
			return true
		}
	}
	return false
}

// objectWriter builds a compact JSON object key by key.
type objectWriter struct {
	buf bytes.Buffer
}

func (w *objectWriter) raw(key string, v []byte) {
	if w.buf.Len() == 0 {
		w.buf.WriteByte('{')
	} else {
		w.buf.WriteByte(',')
	}
	w.buf.Write(quote(key))
	w.buf.WriteByte(':')
	w.buf.Write(v)
}

// fields writes each typed field. A kept value is written back as long as
// the field still holds the text it was decoded to.
func (w *objectWriter) fields(fields []field, kept map[string]json.RawMessage) {
	for _, f := range fields {
		if v, ok := kept[f.key]; ok {
			if s, _ := looseString(v); s == *f.val {
				w.raw(f.key, v)
				continue
			}
		}
		if f.omit && *f.val == "" {
			continue
		}
		w.raw(f.key, quote(*f.val))
	}
}

// rest writes the kept keys that are not typed fields, sorted by key.
func (w *objectWriter) rest(fields []field, kept map[string]json.RawMessage, skip ...string) {
	keys := make([]string, 0, len(kept))
	for k := range kept {
		if !isTyped(fields, k) && !contains(skip, k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		w.raw(k, kept[k])
	}
}

func (w *objectWriter) finish() []byte {
	if w.buf.Len() == 0 {
		return []byte("{}")
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes()
}

// quote encodes s as a JSON string without escaping HTML characters.
func quote(s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return bytes.TrimRight(buf.Bytes(), "\n")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func cloneRaw(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	c := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		c[k] = append(json.RawMessage(nil), v...)
	}
	return c
}
