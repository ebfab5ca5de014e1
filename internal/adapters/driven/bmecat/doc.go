// Package bmecat extracts the header and products of a BMEcat catalog
// (versions 1.2 and 2005, with ETIM features) into two CSV tables.
//
// The extractor works on the namespace-free tree produced by package
// xmltree, so tags are matched by local name only.
//
// Header table (<base>_header.csv): a single row keyed by the slash-joined
// path of every leaf under HEADER, plus BMECAT_VERSION.
//
// Product table (<base>_products.csv): one row per PRODUCT (2005) or
// ARTICLE (1.2) in the transaction sections. Leaf paths are relative to
// the product; FEATURE elements become FEATURE:<FNAME> columns.
package bmecat
