// Package naming derives deliverable file names from merged clip metadata,
// including the production's slate rewrite rules.
package naming
