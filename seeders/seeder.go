package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedCoreDictionaries наполняет справочники: статусы, типы, приоритеты.
func SeedCoreDictionaries(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("🌱 Наполнение базовых справочников...")

	if err := seedStatuses(ctx, db); err != nil {
		log.Fatalf("❌ Сидер статусов завершился с ошибкой: %v", err)
	}
	if err := seedRequestTypes(ctx, db); err != nil {
		log.Fatalf("❌ Сидер типов заявок завершился с ошибкой: %v", err)
	}
	if err := seedPriorities(ctx, db); err != nil {
		log.Fatalf("❌ Сидер приоритетов завершился с ошибкой: %v", err)
	}

	log.Println("✅ Справочники наполнены")
}

// SeedRolesAndAdmin создаёт роли и пользователя-администратора.
func SeedRolesAndAdmin(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("🌱 Создание ролей и администратора...")

	if err := seedRoles(ctx, db); err != nil {
		log.Fatalf("❌ Сидер ролей завершился с ошибкой: %v", err)
	}
	if err := seedAdminUser(ctx, db); err != nil {
		log.Fatalf("❌ Сидер администратора завершился с ошибкой: %v", err)
	}

	log.Println("✅ Роли и администратор готовы")
}
