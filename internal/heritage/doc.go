// Package heritage runs the search-grounded lookups made at startup: brand
// research that yields a summary, source links and persona UI strings, and
// demo discovery on the shop's video channel. Both are best effort.
package heritage
