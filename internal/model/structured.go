package model

import (
	"bytes"
	"encoding/json"
)

// NoTypeDeclared is the type recorded for an item whose type attribute is empty.
const NoTypeDeclared = "[No Type Declared]"

// StructuredItem is one Microdata or RDFa item.
type StructuredItem struct {
	// Type is the declared itemtype or typeof value.
	Type string `json:"type"`

	// Properties maps property names to values in first-seen order.
	Properties *Properties `json:"properties"`

	// ResourceURI is the RDFa resource identifier, if any.
	ResourceURI string `json:"resource_uri,omitempty"`
}

// Properties is an insertion-ordered multimap of property values.
// A name seen once has a single value; a repeated name holds every value in
// the order they were found.
type Properties struct {
	names  []string
	values map[string][]string
}

// NewProperties returns an empty property map.
func NewProperties() *Properties {
	return &Properties{values: make(map[string][]string)}
}

// Add records a value for name.
func (p *Properties) Add(name, value string) {
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = append(p.values[name], value)
}

// Len returns the number of distinct property names.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

// Names returns property names in first-seen order.
func (p *Properties) Names() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.names...)
}

// Values returns every value recorded for name.
func (p *Properties) Values(name string) []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.values[name]...)
}

// MarshalJSON writes the properties as a JSON object that keeps insertion
// order. Single values are strings, repeated values are arrays.
func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if p != nil {
		for i, name := range p.names {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(name)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')

			var val []byte
			if vs := p.values[name]; len(vs) == 1 {
				val, err = json.Marshal(vs[0])
			} else {
				val, err = json.Marshal(vs)
			}
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object produced by MarshalJSON, keeping the key order.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening brace
		return err
	}
	p.names = nil
	p.values = make(map[string][]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var single string
		if err := json.Unmarshal(raw, &single); err == nil {
			p.Add(name, single)
			continue
		}
		var multi []string
		if err := json.Unmarshal(raw, &multi); err != nil {
			return err
		}
		for _, v := range multi {
			p.Add(name, v)
		}
	}
	_, err := dec.Token() // closing brace
	return err
}
