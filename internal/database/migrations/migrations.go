package migrations

import "embed"

// Version identifica o schema.sql atual em schema_migrations.
const Version = "ovitrampas_v1.0.0"

//go:embed *.sql
var Files embed.FS
