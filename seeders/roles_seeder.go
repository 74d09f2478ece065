package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedRoles(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'role'...")

	query := `INSERT INTO role (code, name) VALUES ($1, $2)
	          ON CONFLICT (code) DO NOTHING`
	for _, r := range rolesData {
		if _, err := db.Exec(ctx, query, r.Code, r.Name); err != nil {
			log.Printf("Ошибка при вставке роли '%s': %v", r.Code, err)
			return err
		}
	}
	return nil
}
