package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/elmanzah/reservation-app/models"
)

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	db := setupServiceDB(t)
	seedTable(t, db, models.Table{TableNumber: 1, Capacity: 4})
	allocator := NewAllocator(db, NewTableLocks())
	lifecycle := NewLifecycleService(db)

	res, err := allocator.Allocate(bookingFor(4, "2024-06-01", "19:00"))
	assert.NoError(t, err)

	_, err = lifecycle.SetStatus(res.ID, "seated")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// Status must be left unchanged.
	var stored models.Reservation
	db.First(&stored, res.ID)
	assert.Equal(t, models.ReservationStatusPending, stored.Status)
}

func TestSetStatusHappyPath(t *testing.T) {
	db := setupServiceDB(t)
	seedTable(t, db, models.Table{TableNumber: 1, Capacity: 4})
	allocator := NewAllocator(db, NewTableLocks())
	lifecycle := NewLifecycleService(db)

	res, err := allocator.Allocate(bookingFor(4, "2024-06-01", "19:00"))
	assert.NoError(t, err)

	confirmed, err := lifecycle.SetStatus(res.ID, models.ReservationStatusConfirmed)
	assert.NoError(t, err)
	assert.Equal(t, models.ReservationStatusConfirmed, confirmed.Status)

	completed, err := lifecycle.SetStatus(res.ID, models.ReservationStatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCompleted, completed.Status)
}

func TestSetStatusGuardsStateMachine(t *testing.T) {
	db := setupServiceDB(t)
	seedTable(t, db, models.Table{TableNumber: 1, Capacity: 4})
	allocator := NewAllocator(db, NewTableLocks())
	lifecycle := NewLifecycleService(db)

	res, err := allocator.Allocate(bookingFor(4, "2024-06-01", "19:00"))
	assert.NoError(t, err)

	// Completion requires confirmation first.
	_, err = lifecycle.SetStatus(res.ID, models.ReservationStatusCompleted)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = lifecycle.SetStatus(res.ID, models.ReservationStatusCancelled)
	assert.NoError(t, err)

	// Cancelled is terminal.
	_, err = lifecycle.SetStatus(res.ID, models.ReservationStatusConfirmed)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	_, err = lifecycle.SetStatus(res.ID, models.ReservationStatusPending)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestSetStatusUnknownReservation(t *testing.T) {
	db := setupServiceDB(t)
	lifecycle := NewLifecycleService(db)

	_, err := lifecycle.SetStatus(12345, models.ReservationStatusConfirmed)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCancelFreesSplitHalf(t *testing.T) {
	db := setupServiceDB(t)
	seedTable(t, db, models.Table{TableNumber: 3, Capacity: 8, IsDivisible: true})
	allocator := NewAllocator(db, NewTableLocks())
	lifecycle := NewLifecycleService(db)

	first, err := allocator.Allocate(bookingFor(3, "2024-06-01", "19:00"))
	assert.NoError(t, err)
	second, err := allocator.Allocate(bookingFor(4, "2024-06-01", "19:00"))
	assert.NoError(t, err)
	assert.Equal(t, models.SplitRight, second.Side)

	// Cancelling the left party frees exactly that half.
	_, err = lifecycle.SetStatus(first.ID, models.ReservationStatusCancelled)
	assert.NoError(t, err)

	third, err := allocator.Allocate(bookingFor(2, "2024-06-01", "19:00"))
	assert.NoError(t, err)
	assert.Equal(t, models.SplitLeft, third.Side)

	// With the right half still occupied the slot cannot take a third party.
	_, err = allocator.Allocate(bookingFor(2, "2024-06-01", "19:00"))
	assert.ErrorIs(t, err, ErrNoTableAvailable)

	// Once everyone leaves, the whole table is available again.
	_, err = lifecycle.SetStatus(second.ID, models.ReservationStatusCancelled)
	assert.NoError(t, err)
	_, err = lifecycle.SetStatus(third.ID, models.ReservationStatusCancelled)
	assert.NoError(t, err)

	whole, err := allocator.Allocate(bookingFor(8, "2024-06-01", "19:00"))
	assert.NoError(t, err)
	assert.Equal(t, models.SplitNone, whole.Side)
}

func TestCancelInOneSlotLeavesOtherSlotsAlone(t *testing.T) {
	db := setupServiceDB(t)
	seedTable(t, db, models.Table{TableNumber: 3, Capacity: 8, IsDivisible: true})
	allocator := NewAllocator(db, NewTableLocks())
	lifecycle := NewLifecycleService(db)

	dinner, err := allocator.Allocate(bookingFor(3, "2024-06-01", "19:00"))
	assert.NoError(t, err)
	late, err := allocator.Allocate(bookingFor(3, "2024-06-01", "21:00"))
	assert.NoError(t, err)
	assert.Equal(t, models.SplitLeft, late.Side)

	_, err = lifecycle.SetStatus(dinner.ID, models.ReservationStatusCancelled)
	assert.NoError(t, err)

	// The 21:00 slot still has one half occupied and one half free.
	late2, err := allocator.Allocate(bookingFor(3, "2024-06-01", "21:00"))
	assert.NoError(t, err)
	assert.Equal(t, models.SplitRight, late2.Side)

	_, err = allocator.Allocate(bookingFor(3, "2024-06-01", "21:00"))
	assert.ErrorIs(t, err, ErrNoTableAvailable)
}

func TestCompleteFreesWholeTable(t *testing.T) {
	db := setupServiceDB(t)
	seedTable(t, db, models.Table{TableNumber: 3, Capacity: 8, IsDivisible: true})
	allocator := NewAllocator(db, NewTableLocks())
	lifecycle := NewLifecycleService(db)

	res, err := allocator.Allocate(bookingFor(3, "2024-06-01", "19:00"))
	assert.NoError(t, err)

	_, err = lifecycle.SetStatus(res.ID, models.ReservationStatusConfirmed)
	assert.NoError(t, err)
	_, err = lifecycle.SetStatus(res.ID, models.ReservationStatusCompleted)
	assert.NoError(t, err)

	// A completed visit no longer occupies its half.
	whole, err := allocator.Allocate(bookingFor(8, "2024-06-01", "19:00"))
	assert.NoError(t, err)
	assert.Equal(t, models.SplitNone, whole.Side)
}
