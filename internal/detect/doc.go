// Package detect implements the two loose, prefix-only stages of the
// pipeline: encoding probing and dialect sniffing.
//
// Neither stage parses XML. The prober decodes a bounded byte window under
// each candidate encoding in turn and reads the XML declaration with a
// regular expression; the sniffer looks for doctype and BMEcat root markers
// with plain substring search. Both keep working on documents the strict
// parser in package xmltree would reject.
package detect
