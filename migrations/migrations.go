// Package migrations содержит SQL миграции схемы, встроенные в бинарник.
package migrations

import "embed"

// FS источник миграций для golang-migrate (iofs)
//
//go:embed *.sql
var FS embed.FS
