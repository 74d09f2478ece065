package seeders

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"request-board/pkg/constants"
	"request-board/pkg/utils"
)

// seedAdminUser создаёт администратора, если его ещё нет. Пароль берётся
// из ADMIN_PASSWORD; значение по умолчанию годится только для локальной
// разработки.
func seedAdminUser(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание администратора...")

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		log.Println("    - ADMIN_PASSWORD не задан, используется пароль по умолчанию")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (username, full_name, email, password_hash, role_code)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (username) DO NOTHING`
	_, err = db.Exec(ctx, query, "admin", "Администратор доски", "admin@localhost", hash, constants.RoleAdmin)
	if err != nil {
		log.Printf("Ошибка при создании администратора: %v", err)
	}
	return err
}
