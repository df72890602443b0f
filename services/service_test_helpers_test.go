package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/elmanzah/reservation-app/models"
	"github.com/elmanzah/reservation-app/utils"
)

// setupServiceDB opens an isolated in-memory database per test. The named
// shared-cache DSN lets multiple connections of one test see the same data,
// which the concurrency tests rely on.
func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	// sqlite handles one writer at a time; a single pooled connection keeps
	// concurrent tests free of spurious lock errors.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Table{}, &models.Reservation{}, &models.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedTable(t *testing.T, db *gorm.DB, table models.Table) models.Table {
	t.Helper()
	if table.TableType == "" {
		table.TableType = models.TableTypeNormal
	}
	table.IsAvailable = true
	if err := db.Create(&table).Error; err != nil {
		t.Fatalf("failed to seed table: %v", err)
	}
	return table
}

func bookingFor(partySize int, date, timeSlot string) BookingRequest {
	return BookingRequest{
		CustomerName:  "Amine Tazi",
		CustomerEmail: "amine@example.com",
		CustomerPhone: "+212600000001",
		PartySize:     partySize,
		Date:          date,
		Time:          timeSlot,
	}
}
