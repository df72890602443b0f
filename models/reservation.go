package models

import "time"

// Reservation statuses
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusCompleted = "completed"
)

// Reservation types
const (
	ReservationTypeNormal   = "normal"
	ReservationTypeBusiness = "business"
	ReservationTypeExternal = "external"
)

type Reservation struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	CustomerName    string      `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail   string      `gorm:"type:varchar(255);not null" json:"customer_email"`
	CustomerPhone   string      `gorm:"type:varchar(50);not null" json:"customer_phone"`
	PartySize       int         `gorm:"not null" json:"party_size"`
	Date            time.Time   `gorm:"not null;index:idx_reservation_slot" json:"date"`
	Time            string      `gorm:"type:varchar(5);not null;index:idx_reservation_slot" json:"time"`
	SpecialRequests string      `gorm:"type:text" json:"special_requests,omitempty"`
	Status          string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ReservationType string      `gorm:"type:varchar(20);not null;default:'normal'" json:"reservation_type"`
	TableID         uint        `gorm:"not null;index:idx_reservation_slot" json:"table_id"`
	Table           Table       `gorm:"foreignKey:TableID" json:"table"`
	Side            SplitStatus `gorm:"type:varchar(10);not null;default:''" json:"side,omitempty"`
	CreatedAt       time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null" json:"updated_at"`
}

// ActiveStatuses are the statuses that occupy a table slot.
func ActiveStatuses() []string {
	return []string{ReservationStatusPending, ReservationStatusConfirmed}
}

func ValidReservationStatus(status string) bool {
	switch status {
	case ReservationStatusPending, ReservationStatusConfirmed,
		ReservationStatusCancelled, ReservationStatusCompleted:
		return true
	}
	return false
}

func ValidReservationType(reservationType string) bool {
	switch reservationType {
	case ReservationTypeNormal, ReservationTypeBusiness, ReservationTypeExternal:
		return true
	}
	return false
}

// Active reports whether the reservation still occupies its slot.
func (r *Reservation) Active() bool {
	return r.Status == ReservationStatusPending || r.Status == ReservationStatusConfirmed
}
