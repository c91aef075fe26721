// Package db holds the SQL schema migrations, embedded into the binary.
package db

import "embed"

// Migrations contains the migrations/*.sql files, applied in filename order
//
//go:embed migrations/*.sql
var Migrations embed.FS
