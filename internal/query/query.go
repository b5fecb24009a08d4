package query

import (
	"regexp"
	"slices"
	"strings"

	"vidcat/internal/assets"
)

// Kind classifies an operator.
type Kind string

const (
	KindAnd   Kind = "AND"
	KindOr    Kind = "OR"
	KindField Kind = "FIELD"
	KindExact Kind = "EXACT"
	KindTerm  Kind = "TERM"
)

// Operator is one parsed element of a query.
type Operator struct {
	Kind   Kind   `json:"type"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value"`
	Negate bool   `json:"negate,omitempty"`
}

var tokenPattern = regexp.MustCompile(`(?:[^\s"]+|"[^"]*")+`)

// Tokens splits a query on whitespace, keeping quoted spans together.
func Tokens(q string) []string {
	return tokenPattern.FindAllString(q, -1)
}

// Parse converts a query into operators. Blank queries yield none.
func Parse(q string) []Operator {
	if strings.TrimSpace(q) == "" {
		return nil
	}
	tokens := Tokens(q)
	ops := make([]Operator, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		token := strings.TrimSpace(tokens[i])
		upper := strings.ToUpper(token)

		if upper == "NOT" && i+1 < len(tokens) {
			i++
			op := predicate(tokens[i])
			op.Negate = true
			ops = append(ops, op)
			continue
		}
		if strings.Contains(token, ":") {
			ops = append(ops, predicate(token))
			continue
		}
		if len(token) >= 2 && strings.HasPrefix(token, `"`) && strings.HasSuffix(token, `"`) {
			ops = append(ops, Operator{Kind: KindExact, Value: token[1 : len(token)-1]})
			continue
		}
		if upper == "AND" || upper == "OR" {
			ops = append(ops, Operator{Kind: Kind(upper), Value: token})
			continue
		}
		ops = append(ops, Operator{Kind: KindTerm, Value: token})
	}
	return ops
}

// predicate parses a field:value token, or a term with its quotes removed.
func predicate(token string) Operator {
	if field, value, ok := strings.Cut(token, ":"); ok {
		return Operator{
			Kind:  KindField,
			Field: strings.ToLower(strings.Trim(field, `"`)),
			Value: strings.ReplaceAll(value, `"`, ""),
		}
	}
	return Operator{Kind: KindTerm, Value: strings.ReplaceAll(token, `"`, "")}
}

// Match evaluates ops against a. An empty operator list matches everything.
func Match(a assets.Asset, ops []Operator) bool {
	result := true
	logic := KindAnd
	for _, op := range ops {
		if op.Kind == KindAnd || op.Kind == KindOr {
			logic = op.Kind
			continue
		}
		matched := Evaluate(a, op)
		if logic == KindAnd {
			result = result && matched
		} else {
			result = result || matched
		}
	}
	return result
}

// Filter returns the assets matching q, preserving order. A blank query
// returns list unchanged.
func Filter(list []assets.Asset, q string) []assets.Asset {
	ops := Parse(q)
	if len(ops) == 0 {
		return list
	}
	out := make([]assets.Asset, 0, len(list))
	for _, a := range list {
		if Match(a, ops) {
			out = append(out, a)
		}
	}
	return out
}

// Evaluate reports whether a single predicate operator matches a, applying
// its negation. Logical operators never match.
func Evaluate(a assets.Asset, op Operator) bool {
	var matched bool
	value := strings.ToLower(op.Value)
	switch op.Kind {
	case KindField:
		values, ok := fieldValues(a, op.Field)
		matched = ok && slices.ContainsFunc(values, func(v string) bool {
			return v != "" && strings.Contains(strings.ToLower(v), value)
		})
	case KindExact:
		matched = slices.ContainsFunc(a.Fields(), func(v string) bool {
			return strings.ToLower(v) == value
		})
	case KindTerm:
		matched = slices.ContainsFunc(a.Fields(), func(v string) bool {
			return strings.Contains(strings.ToLower(v), value)
		})
	default:
		return false
	}
	if op.Negate {
		return !matched
	}
	return matched
}

// Fields lists the field names accepted in field:value operators.
var Fields = []string{
	"category", "protocol", "protocols", "codec", "codecs", "host",
	"hdr", "container", "resolution", "feature", "features", "notes",
}

// fieldValues returns the asset values addressed by a field name. Unknown
// fields report ok=false and never match.
func fieldValues(a assets.Asset, field string) ([]string, bool) {
	switch field {
	case "category":
		return []string{a.Category}, true
	case "protocol", "protocols":
		return a.FacetValues(assets.FacetProtocol), true
	case "codec", "codecs":
		return a.FacetValues(assets.FacetCodec), true
	case "host":
		return []string{a.Host}, true
	case "hdr":
		return []string{string(a.HDR)}, true
	case "container":
		return []string{string(a.Container)}, true
	case "resolution":
		return []string{a.ResolutionLabel()}, true
	case "feature", "features":
		return a.Features, true
	case "notes":
		return []string{a.Notes}, true
	default:
		return nil, false
	}
}
