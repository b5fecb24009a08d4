// Package query parses and evaluates the advanced search syntax.
//
// A query is a whitespace separated list of tokens; double-quoted spans stay
// inside one token. Recognized forms are NOT <token>, field:value, "exact
// phrase", AND, OR, and plain terms. Evaluation is a left-to-right fold over
// a boolean seeded true: AND and OR only switch how the next predicate is
// combined with the running result. There is no precedence and no grouping,
// so "a OR b AND c" means ((true AND a) OR b) AND c.
//
// field:value splits at the first colon only; the rest of the token is the
// value, so notes:a:b matches notes containing "a:b".
package query
