// Package extract derives structured asset attributes from free text.
//
// Each extractor is a pure function of the format/protocol column and the
// notes column (the container extractor also sees the URL). The vocabularies
// are ordered keyword tables: multi-valued extractors return every rule that
// hits, single-valued extractors return the first. All keyword tables are
// matched in one pass with an Aho-Corasick automaton, which is safe for
// concurrent use.
//
// Extraction is best effort. Unrecognized phrasing degrades to defaults: the
// file protocol, sdr, no resolution, no container, and empty codec and
// feature lists.
package extract
