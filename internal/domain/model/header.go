package model

import "strings"

// HeaderField is a single header line as it appears on the wire
type HeaderField struct {
	// Name is the header name with its original casing
	Name string
	// Value is the header value
	Value string
}

// Header is an ordered, case-insensitive header collection.
// Lookups normalize the name to lower case; the casing of the first
// insertion is kept for serialization.
type Header struct {
	fields []HeaderField
	index  map[string]int
}

// NewHeader creates an empty Header
func NewHeader() *Header {
	return &Header{index: make(map[string]int)}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (h *Header) ensure() {
	if h.index == nil {
		h.index = make(map[string]int)
	}
}

// Get returns the value stored under name and whether it exists
func (h *Header) Get(name string) (string, bool) {
	if h == nil || h.index == nil {
		return "", false
	}
	i, ok := h.index[normalize(name)]
	if !ok {
		return "", false
	}
	return h.fields[i].Value, true
}

// Value returns the value stored under name, or an empty string
func (h *Header) Value(name string) string {
	v, _ := h.Get(name)
	return v
}

// Has reports whether name is present
func (h *Header) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}

// Set stores value under name, replacing any existing value
func (h *Header) Set(name, value string) {
	h.ensure()
	key := normalize(name)
	if i, ok := h.index[key]; ok {
		h.fields[i].Value = value
		return
	}
	h.index[key] = len(h.fields)
	h.fields = append(h.fields, HeaderField{Name: name, Value: value})
}

// SetDefault stores value under name only when name is absent
func (h *Header) SetDefault(name, value string) {
	if h.Has(name) {
		return
	}
	h.Set(name, value)
}

// SetOrAdd stores value under name; when name already exists the new
// value is appended to the old one separated by a comma.
func (h *Header) SetOrAdd(name, value string) {
	if existing, ok := h.Get(name); ok {
		h.Set(name, existing+","+value)
		return
	}
	h.Set(name, value)
}

// Remove deletes name from the header
func (h *Header) Remove(name string) {
	if h == nil || h.index == nil {
		return
	}
	key := normalize(name)
	i, ok := h.index[key]
	if !ok {
		return
	}
	h.fields = append(h.fields[:i], h.fields[i+1:]...)
	delete(h.index, key)
	for k, pos := range h.index {
		if pos > i {
			h.index[k] = pos - 1
		}
	}
}

// Len returns the number of distinct header names
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.fields)
}

// Fields returns a copy of the header lines in insertion order
func (h *Header) Fields() []HeaderField {
	if h == nil {
		return nil
	}
	out := make([]HeaderField, len(h.fields))
	copy(out, h.fields)
	return out
}

// Map returns the header as a plain map keyed by the original names
func (h *Header) Map() map[string]string {
	out := make(map[string]string, h.Len())
	for _, f := range h.Fields() {
		out[f.Name] = f.Value
	}
	return out
}

// Format renders the header lines joined by CRLF, without a trailing CRLF
func (h *Header) Format() string {
	lines := make([]string, 0, h.Len())
	for _, f := range h.Fields() {
		lines = append(lines, f.Name+": "+f.Value)
	}
	return strings.Join(lines, "\r\n")
}
