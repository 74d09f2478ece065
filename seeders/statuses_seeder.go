package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedStatuses(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'request_status'...")

	query := `INSERT INTO request_status (code, name, sort_order, is_terminal)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name,
	              sort_order = EXCLUDED.sort_order, is_terminal = EXCLUDED.is_terminal`

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, s := range statusesData {
		if _, err := tx.Exec(ctx, query, s.Code, s.Name, s.SortOrder, s.IsTerminal); err != nil {
			log.Printf("Ошибка при вставке статуса '%s': %v", s.Code, err)
			return err
		}
	}
	return tx.Commit(ctx)
}
