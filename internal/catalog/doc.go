// Package catalog holds the static option lists that constrain intake forms
// and prompt vocabulary.
//
// Every option carries an explicit CategorySet naming the instruments it
// applies to; Filter resolves availability from those tags alone. The package
// also carries the workshop price lists used by the catalog and manifest views.
package catalog
