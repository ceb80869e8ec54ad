// migrations содержит SQL-миграции схемы в формате goose, встроенные в бинарь.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
