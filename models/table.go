package models

import "time"

// Table types
const (
	TableTypeNormal   = "normal"
	TableTypeBusiness = "business"
	TableTypeDinner   = "dinner"
)

// SplitStatus names a half of a divisible table. The empty value means
// no half, i.e. the whole table. On a reservation it records which half
// the booking holds; conflict checks derive a slot's occupancy from
// those per-reservation values. The table's own split_status column is
// display state for the floor plan only and never gates a booking.
type SplitStatus string

const (
	SplitNone  SplitStatus = ""
	SplitLeft  SplitStatus = "left"
	SplitRight SplitStatus = "right"
)

// Opposite returns the other half of a divisible table.
func (s SplitStatus) Opposite() SplitStatus {
	switch s {
	case SplitLeft:
		return SplitRight
	case SplitRight:
		return SplitLeft
	}
	return SplitNone
}

type Table struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	TableNumber int         `gorm:"unique;not null" json:"table_number"`
	Capacity    int         `gorm:"not null" json:"capacity"`
	TableType   string      `gorm:"type:varchar(20);not null;default:'normal'" json:"table_type"`
	IsAvailable bool        `gorm:"not null;default:true" json:"is_available"`
	IsDivisible bool        `gorm:"not null;default:false" json:"is_divisible"`
	SplitStatus SplitStatus `gorm:"type:varchar(10);not null;default:''" json:"split_status"`
	PositionX   float64     `gorm:"not null;default:0" json:"position_x"`
	PositionY   float64     `gorm:"not null;default:0" json:"position_y"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}

// CanSplit reports whether the table may host two parties at once for the
// given party size. Only divisible 8-seat tables split, and only for
// parties of four or fewer; a larger party books the whole table.
func (t *Table) CanSplit(partySize int) bool {
	return t.IsDivisible && t.Capacity == 8 && partySize <= 4
}

func ValidTableType(tableType string) bool {
	switch tableType {
	case TableTypeNormal, TableTypeBusiness, TableTypeDinner:
		return true
	}
	return false
}
