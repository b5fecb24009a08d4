// Package csvline splits a single raw CSV line into trimmed field values.
//
// The scan flips an "inside quotes" flag on every double quote and drops the
// quote characters themselves, so commas inside a quoted span stay part of the
// field. Escaped quotes ("") are not recognized: each quote flips the flag, so
// a doubled quote leaves the state unchanged and contributes nothing to the
// value. Malformed quoting never fails; the caller receives whatever the scan
// produced.
package csvline

import "strings"

// Split returns the ordered field values of line. A line with no commas yields
// a single field; an empty line yields one empty field.
func Split(line string) []string {
	var (
		fields  []string
		current strings.Builder
		quoted  bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == ',' && !quoted:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// Header splits a header line, stripping every quote and lowercasing names.
// Header names never contain commas, so quoting is ignored.
func Header(line string) []string {
	parts := strings.Split(line, ",")
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(part, `"`, "")))
	}
	return out
}

// Lines splits text on newlines and drops blank lines. Carriage returns are
// trimmed so CRLF input behaves like LF input.
func Lines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
