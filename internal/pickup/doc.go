// Package pickup defines the generated pickup specification, the schema it is
// requested with, and the strict checks applied before a spec is accepted.
package pickup
