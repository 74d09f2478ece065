package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedRequestTypes(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'request_types'...")

	query := `INSERT INTO request_types (code, name) VALUES ($1, $2)
	          ON CONFLICT (code) DO NOTHING`
	for _, t := range requestTypesData {
		if _, err := db.Exec(ctx, query, t.Code, t.Name); err != nil {
			log.Printf("Ошибка при вставке типа заявки '%s': %v", t.Code, err)
			return err
		}
	}
	return nil
}

func seedPriorities(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'request_priorities'...")

	query := `INSERT INTO request_priorities (code, name, sort_order) VALUES ($1, $2, $3)
	          ON CONFLICT (code) DO NOTHING`
	for _, p := range prioritiesData {
		if _, err := db.Exec(ctx, query, p.Code, p.Name, p.SortOrder); err != nil {
			log.Printf("Ошибка при вставке приоритета '%s': %v", p.Code, err)
			return err
		}
	}
	return nil
}
