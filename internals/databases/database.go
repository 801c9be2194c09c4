package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	childModel "ebivilapaula_backend/internals/features/children/model"
	ebiModel "ebivilapaula_backend/internals/features/ebi/model"
	userModel "ebivilapaula_backend/internals/features/users/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=ebivilapaula&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 PgBouncer friendly (transaction pooling)
	}), &gorm.Config{
		TranslateError: true, // unique violations surface as gorm.ErrDuplicatedKey
	})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate keeps the schema in sync with the models. The presence table carries
// the (ebi_id, child_id) unique index, so the duplicate-registration race is
// closed at the store, not just in the service.
func Migrate() {
	if err := DB.AutoMigrate(
		&userModel.UserModel{},
		&childModel.ChildModel{},
		&childModel.ChildGuardianModel{},
		&ebiModel.EbiModel{},
		&ebiModel.EbiCollaboratorModel{},
		&ebiModel.EbiPresenceModel{},
		&ebiModel.EbiAuditModel{},
	); err != nil {
		log.Fatalf("❌ auto migrate failed: %v", err)
	}
	log.Println("✅ Schema migrated.")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
