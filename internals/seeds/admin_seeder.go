package seeds

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"ebivilapaula_backend/internals/configs"
	"ebivilapaula_backend/internals/constants"
	"ebivilapaula_backend/internals/features/users/model"
	"ebivilapaula_backend/internals/features/users/service"
)

// SeedAdmin bootstraps the first administrator account. Idempotent: it does
// nothing when the email already exists, and nothing unless ALLOW_BOOTSTRAP
// is set.
func SeedAdmin(db *gorm.DB) {
	if !configs.GetEnvBool("ALLOW_BOOTSTRAP", false) {
		return
	}

	email := configs.GetEnv("BOOTSTRAP_ADMIN_EMAIL", "admin@ebivilapaula.local")
	password := configs.GetEnv("BOOTSTRAP_ADMIN_PASSWORD")
	if password == "" {
		log.Println("[WARN] ALLOW_BOOTSTRAP set but BOOTSTRAP_ADMIN_PASSWORD empty, skipping seed")
		return
	}

	var existing model.UserModel
	err := db.Where("user_email = ?", email).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[ERROR] admin seed lookup: %v", err)
		return
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		log.Printf("[ERROR] admin seed hash: %v", err)
		return
	}

	admin := &model.UserModel{
		UserFullName:     "Administrador",
		UserEmail:        email,
		UserPhone:        "",
		UserRole:         constants.RoleAdministrador,
		UserGroupNumber:  1,
		UserPasswordHash: hash,
		UserIsActive:     true,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("[ERROR] admin seed create: %v", err)
		return
	}
	log.Printf("✅ Bootstrap admin created: %s", email)
}
