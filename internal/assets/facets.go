package assets

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Facet names one filterable dimension of an asset.
type Facet string

const (
	FacetProtocol   Facet = "protocol"
	FacetCodec      Facet = "codec"
	FacetResolution Facet = "resolution"
	FacetHDR        Facet = "hdr"
	FacetContainer  Facet = "container"
	FacetHost       Facet = "host"
	FacetScheme     Facet = "scheme"
)

// Facets lists every facet in canonical order.
var Facets = []Facet{
	FacetProtocol,
	FacetCodec,
	FacetResolution,
	FacetHDR,
	FacetContainer,
	FacetHost,
	FacetScheme,
}

// ParseFacet resolves a facet name.
func ParseFacet(name string) (Facet, bool) {
	for _, f := range Facets {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// FacetValue is one value of a facet and the number of assets carrying it.
type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FacetCounts maps each facet to its values ordered by descending count.
// JSON encoding preserves both facet order and value order.
type FacetCounts map[Facet][]FacetValue

// Count returns the count for value within facet, or 0.
func (fc FacetCounts) Count(f Facet, value string) int {
	for _, v := range fc[f] {
		if v.Value == value {
			return v.Count
		}
	}
	return 0
}

// Total sums the counts of a facet.
func (fc FacetCounts) Total(f Facet) int {
	total := 0
	for _, v := range fc[f] {
		total += v.Count
	}
	return total
}

// MarshalJSON writes {"protocol":{"hls":3,...},...} with facets in canonical
// order and values in slice order.
func (fc FacetCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range Facets {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(string(f))
		buf.Write(key)
		buf.WriteString(":{")
		for j, v := range fc[f] {
			if j > 0 {
				buf.WriteByte(',')
			}
			name, err := json.Marshal(v.Value)
			if err != nil {
				return nil, err
			}
			buf.Write(name)
			fmt.Fprintf(&buf, ":%d", v.Count)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form written by MarshalJSON, keeping the
// value order found in the document. Unknown facets are ignored.
func (fc *FacetCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	out := make(FacetCounts, len(Facets))
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("facet counts: unexpected key %v", keyTok)
		}
		values, err := decodeOrderedCounts(dec)
		if err != nil {
			return fmt.Errorf("facet counts %q: %w", key, err)
		}
		if f, ok := ParseFacet(key); ok {
			out[f] = values
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}
	*fc = out
	return nil
}

func decodeOrderedCounts(dec *json.Decoder) ([]FacetValue, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	values := []FacetValue{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", keyTok)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return nil, err
		}
		values = append(values, FacetValue{Value: name, Count: count})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return values, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
