package services

import (
	"gorm.io/gorm"

	"github.com/elmanzah/reservation-app/models"
	"github.com/elmanzah/reservation-app/utils"
)

// CleanupService removes reservations whose table no longer exists.
// Table deletion is normally rejected while active reservations point at
// the table, so orphans only appear through legacy data or manual edits.
type CleanupService struct {
	db *gorm.DB
}

func NewCleanupService(db *gorm.DB) *CleanupService {
	return &CleanupService{db: db}
}

// CleanOrphans deletes every reservation with a dangling table reference
// and returns the deleted IDs.
func (s *CleanupService) CleanOrphans() ([]uint, error) {
	var orphans []models.Reservation
	err := s.db.Where("table_id NOT IN (?)",
		s.db.Model(&models.Table{}).Select("id")).
		Find(&orphans).Error
	if err != nil {
		return nil, err
	}
	if len(orphans) == 0 {
		return []uint{}, nil
	}

	ids := make([]uint, 0, len(orphans))
	for _, r := range orphans {
		ids = append(ids, r.ID)
	}
	if err := s.db.Delete(&models.Reservation{}, ids).Error; err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Cleaned %d orphaned reservations", len(ids))
	return ids, nil
}

// ActiveReservationCount counts pending and confirmed reservations that
// reference the given table.
func (s *CleanupService) ActiveReservationCount(tableID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Reservation{}).
		Where("table_id = ? AND status IN ?", tableID, models.ActiveStatuses()).
		Count(&count).Error
	return count, err
}
