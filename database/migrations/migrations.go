// Package migrations contains the database migrations. Each file registers
// itself via init(), so the package only needs to be blank-imported by the
// CLI entry point.
package migrations
