// Пакет migrations вшивает SQL-миграции в бинарник, чтобы схема
// накатывалась при старте без внешних файлов.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
