package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/elmanzah/reservation-app/models"
)

// SlotAvailability is the outcome of a conflict check for one table at one
// date/time slot. For a splittable table with one half taken, Side names
// the free half; SplitNone means the whole table is free.
type SlotAvailability struct {
	Free bool
	Side models.SplitStatus
}

// ConflictChecker decides whether an existing reservation already occupies
// a table at a given slot. Construct it over a transaction when the answer
// has to stay true until a write commits.
type ConflictChecker struct {
	db *gorm.DB
}

func NewConflictChecker(db *gorm.DB) *ConflictChecker {
	return &ConflictChecker{db: db}
}

// CheckSlot reports whether the table can take a party of partySize at the
// given date and time. Only pending and confirmed reservations block a
// slot. Occupancy is derived from the sides those reservations hold, so
// every (table, date, time) slot is judged independently; bookings at
// other slots on the same table never affect the answer. A divisible
// 8-seat table requested by a party larger than four is treated as a
// regular table.
func (cc *ConflictChecker) CheckSlot(table *models.Table, partySize int, date time.Time, timeSlot string) (SlotAvailability, error) {
	var sides []models.SplitStatus
	err := cc.db.Model(&models.Reservation{}).
		Where("table_id = ? AND date = ? AND time = ? AND status IN ?",
			table.ID, date, timeSlot, models.ActiveStatuses()).
		Pluck("side", &sides).Error
	if err != nil {
		return SlotAvailability{}, err
	}

	if !table.CanSplit(partySize) {
		return SlotAvailability{Free: len(sides) == 0}, nil
	}

	switch {
	case len(sides) == 0:
		return SlotAvailability{Free: true, Side: models.SplitNone}, nil
	case len(sides) == 1 && sides[0] != models.SplitNone:
		return SlotAvailability{Free: true, Side: sides[0].Opposite()}, nil
	}

	// Whole-table booking at this slot, or both halves taken.
	return SlotAvailability{}, nil
}
