package main

import (
	"database/sql"
	"flag"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"

	"request-board/migrations"
	"request-board/pkg/config"
	"request-board/pkg/database/postgresql"
	"request-board/seeders"
)

func main() {
	runMigrate := flag.Bool("migrate", false, "Применить миграции перед наполнением")
	runCore := flag.Bool("core", false, "Наполнить справочники (статусы, типы, приоритеты)")
	runRoles := flag.Bool("roles", false, "Создать роли и администратора")
	runAll := flag.Bool("all", false, "Запустить всё (эквивалентно -migrate -core -roles)")
	flag.Parse()

	if !*runMigrate && !*runCore && !*runRoles && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		flag.PrintDefaults()
		return
	}

	cfg := config.New()

	if *runAll || *runMigrate {
		db, err := sql.Open("pgx", cfg.Postgres.DSN)
		if err != nil {
			log.Fatalf("❌ Не удалось открыть подключение для миграций: %v", err)
		}
		if err := migrations.Up(db); err != nil {
			log.Fatalf("❌ Миграции не применились: %v", err)
		}
		db.Close()
		log.Println("✅ Миграции применены")
	}

	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	if *runAll || *runCore {
		seeders.SeedCoreDictionaries(dbPool)
	}
	if *runAll || *runRoles {
		seeders.SeedRolesAndAdmin(dbPool)
	}
}
