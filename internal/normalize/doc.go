// Package normalize turns one raw CSV row into one assets.Asset.
//
// Two layouts are accepted. The simple layout is positional
// (url, category, format/protocol text, notes) and runs every extractor over
// the free text. The extended layout is the fourteen column pre-normalized
// export, addressed by header name, whose list columns use "|" as the only
// separator.
//
// In both layouts the URL gains an https:// prefix when it has no http(s)
// scheme, host and scheme fall back to "unknown" when the URL does not parse,
// and the ID is the first sixteen hex characters of the SHA-256 digest of the
// normalized URL. Rows that cannot produce an asset return a *SkipError that
// matches ErrSkipRow.
package normalize
