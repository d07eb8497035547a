// Package redirectadmin exposes repository-level assets embedded into the
// binary, currently the SQL migrations applied by the migrate command.
package redirectadmin

import "embed"

// Migrations holds the goose SQL migrations for the service schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS
