package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Collection maps hymn numbers to records.
//
// Raw JSON keys are parsed at the boundary: keys matching "hymn<N>" become
// typed entries, anything else is kept aside untouched so that rewriting the
// file never drops data the collection does not understand. A hymn key whose
// value is not a record is kept aside the same way but still counts as
// present.
//
//	var c model.Collection
//	if err := json.Unmarshal(data, &c); err != nil {
//	    return err
//	}
//	for _, key := range c.Rejected() {
//	    log.Printf("ignoring key %q", key)
//	}
type Collection struct {
	hymns map[Number]*Hymn
	extra map[string]json.RawMessage

	// opaque maps hymn numbers whose value could not be decoded to their
	// raw key in extra.
	opaque map[Number]string
}

// NewCollection returns an empty collection.
func NewCollection() Collection {
	return Collection{
		hymns:  make(map[Number]*Hymn),
		extra:  make(map[string]json.RawMessage),
		opaque: make(map[Number]string),
	}
}

// Len returns the number of typed hymn entries.
func (c Collection) Len() int {
	return len(c.hymns)
}

// Get returns the record stored under n.
func (c Collection) Get(n Number) (*Hymn, bool) {
	h, ok := c.hymns[n]
	return h, ok
}

// Has reports whether the collection has a key for n, including one whose
// value is not a readable record.
func (c Collection) Has(n Number) bool {
	if _, ok := c.hymns[n]; ok {
		return true
	}
	_, ok := c.opaque[n]
	return ok
}

// Set stores h under n, replacing any previous record.
func (c *Collection) Set(n Number, h *Hymn) {
	if c.hymns == nil {
		c.hymns = make(map[Number]*Hymn)
	}
	if key, ok := c.opaque[n]; ok {
		delete(c.extra, key)
		delete(c.opaque, n)
	}
	c.hymns[n] = h
}

// Numbers returns every stored hymn number in ascending order.
func (c Collection) Numbers() []Number {
	nums := make([]Number, 0, len(c.hymns))
	for n := range c.hymns {
		nums = append(nums, n)
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })
	return nums
}

// Rejected returns the raw keys kept aside: those that did not match the
// hymn key pattern and hymn keys whose value is not a record.
func (c Collection) Rejected() []string {
	keys := make([]string, 0, len(c.extra))
	for k := range c.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy: the maps are new, the records are shared.
func (c Collection) Clone() Collection {
	out := NewCollection()
	for n, h := range c.hymns {
		out.hymns[n] = h
	}
	for k, v := range c.extra {
		out.extra[k] = v
	}
	for n, k := range c.opaque {
		out.opaque[n] = k
	}
	return out
}

// UnmarshalJSON parses a JSON object keyed by "hymn<N>".
//
// When two keys name the same number (e.g. "hymn7" and "hymn07") the
// canonical spelling wins.
func (c *Collection) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = NewCollection()

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		n, ok := ParseKey(key)
		if !ok {
			c.extra[key] = raw[key]
			continue
		}
		if _, exists := c.hymns[n]; exists && key != n.Key() {
			continue
		}

		var h Hymn
		if err := json.Unmarshal(raw[key], &h); err != nil {
			c.extra[key] = raw[key]
			if _, typed := c.hymns[n]; !typed {
				c.opaque[n] = key
			}
			continue
		}
		if prev, ok := c.opaque[n]; ok {
			delete(c.extra, prev)
			delete(c.opaque, n)
		}
		c.hymns[n] = &h
	}

	return nil
}

// MarshalJSON writes hymn entries in ascending number order followed by any
// rejected keys, indented by four spaces.
func (c Collection) MarshalJSON() ([]byte, error) {
	if len(c.hymns) == 0 && len(c.extra) == 0 {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")

	first := true
	writeEntry := func(key string, value []byte) error {
		if !first {
			buf.WriteString(",\n")
		}
		first = false

		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.WriteString("    ")
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(value)
		return nil
	}

	for _, n := range c.Numbers() {
		value, err := encodeIndented(c.hymns[n])
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", n.Key(), err)
		}
		if err := writeEntry(n.Key(), value); err != nil {
			return nil, err
		}
	}

	for _, key := range c.Rejected() {
		var indented bytes.Buffer
		if err := json.Indent(&indented, c.extra[key], "    ", "    "); err != nil {
			return nil, fmt.Errorf("record %s: %w", key, err)
		}
		if err := writeEntry(key, indented.Bytes()); err != nil {
			return nil, err
		}
	}

	buf.WriteString("\n}")
	return buf.Bytes(), nil
}

// encodeIndented encodes v nested one level deep without HTML escaping, so
// lyrics keep their literal characters.
func encodeIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("    ", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return []byte(strings.TrimRight(buf.String(), "\n")), nil
}
