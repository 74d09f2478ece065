package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// Up применяет все недостающие миграции. Ожидает database/sql-подключение
// (goose не работает напрямую с pgxpool), поэтому app открывает отдельное
// короткоживущее соединение через stdlib-драйвер pgx.
func Up(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose: не удалось выбрать диалект: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("goose: ошибка применения миграций: %w", err)
	}
	return nil
}
