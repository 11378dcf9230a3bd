package database

import "embed"

// EmbeddedMigrations, migrations/ dizinindeki SQL dosyaları.
// Kullanım: fs.Sub(EmbeddedMigrations, "migrations")
//
//go:embed migrations/*.sql
var EmbeddedMigrations embed.FS
