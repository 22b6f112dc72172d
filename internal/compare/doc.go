// Package compare puts two saved designs side by side: a deterministic
// parameter table, a generated tonal analysis, and the rolling two-design
// selection that feeds them.
package compare
