package database

import (
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/elmanzah/reservation-app/models"
	"github.com/elmanzah/reservation-app/utils"
)

// Seed creates the initial floor plan and the two bootstrap accounts when
// the database is empty. Safe to call on every startup.
func Seed(db *gorm.DB) error {
	var tableCount int64
	if err := db.Model(&models.Table{}).Count(&tableCount).Error; err != nil {
		return err
	}
	if tableCount == 0 {
		tables := []models.Table{
			{TableNumber: 1, Capacity: 4, TableType: models.TableTypeNormal, IsAvailable: true},
			{TableNumber: 2, Capacity: 6, TableType: models.TableTypeBusiness, IsAvailable: true},
			{TableNumber: 3, Capacity: 8, TableType: models.TableTypeDinner, IsAvailable: true, IsDivisible: true},
			{TableNumber: 4, Capacity: 2, TableType: models.TableTypeNormal, IsAvailable: true},
			{TableNumber: 5, Capacity: 4, TableType: models.TableTypeBusiness, IsAvailable: true},
		}
		if err := db.Create(&tables).Error; err != nil {
			return err
		}
		utils.InfoLogger.Printf("Seeded %d tables", len(tables))
	}

	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount == 0 {
		superPass, err := bcrypt.GenerateFromPassword(
			[]byte(envOr("SEED_SUPERADMIN_PASSWORD", "superadmin123")), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		adminPass, err := bcrypt.GenerateFromPassword(
			[]byte(envOr("SEED_ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		users := []models.User{
			{
				Username:  "superadmin_main",
				Email:     "superadmin_main@elmanzah.com",
				Password:  string(superPass),
				FirstName: "Super",
				LastName:  "Admin",
				Role:      models.RoleSuperAdmin,
				IsActive:  true,
			},
			{
				Username:  "admin_main",
				Email:     "admin_main@elmanzah.com",
				Password:  string(adminPass),
				FirstName: "Admin",
				LastName:  "User",
				Role:      models.RoleAdmin,
				IsActive:  true,
			},
		}
		if err := db.Create(&users).Error; err != nil {
			return err
		}
		utils.InfoLogger.Println("Seeded bootstrap admin accounts")
	}

	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
