package services

import (
	"gorm.io/gorm"

	"github.com/elmanzah/reservation-app/models"
	"github.com/elmanzah/reservation-app/utils"
)

// allowedTransitions is the reservation state machine. Cancelled and
// completed are terminal.
var allowedTransitions = map[string][]string{
	models.ReservationStatusPending: {
		models.ReservationStatusConfirmed,
		models.ReservationStatusCancelled,
	},
	models.ReservationStatusConfirmed: {
		models.ReservationStatusCompleted,
		models.ReservationStatusCancelled,
	},
}

func transitionAllowed(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// LifecycleService applies staff-initiated status transitions.
type LifecycleService struct {
	db *gorm.DB
}

func NewLifecycleService(db *gorm.DB) *LifecycleService {
	return &LifecycleService{db: db}
}

// SetStatus moves a reservation to newStatus. Unknown statuses fail with
// ErrInvalidStatus, transitions outside the state machine (including any
// move out of cancelled or completed) with ErrIllegalTransition; the
// reservation is left untouched in both cases. Leaving pending or
// confirmed frees the booking's slot (or its half of a divisible table)
// on its own: slot occupancy is derived from active reservations, so no
// table state needs resetting.
func (s *LifecycleService) SetStatus(reservationID uint, newStatus string) (*models.Reservation, error) {
	if !models.ValidReservationStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	var reservation models.Reservation
	if err := s.db.Preload("Table").First(&reservation, reservationID).Error; err != nil {
		return nil, err
	}

	if !transitionAllowed(reservation.Status, newStatus) {
		return nil, ErrIllegalTransition
	}
	if reservation.Status == newStatus {
		return &reservation, nil
	}

	err := s.db.Model(&models.Reservation{}).Where("id = ?", reservation.ID).
		Update("status", newStatus).Error
	if err != nil {
		return nil, err
	}

	reservation.Status = newStatus
	utils.InfoLogger.Printf("Reservation %d status changed to %s", reservation.ID, newStatus)
	return &reservation, nil
}
