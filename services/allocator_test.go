package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elmanzah/reservation-app/models"
)

func TestAllocateExactMatch(t *testing.T) {
	db := setupServiceDB(t)
	table := seedTable(t, db, models.Table{TableNumber: 1, Capacity: 4})
	allocator := NewAllocator(db, NewTableLocks())

	res, err := allocator.Allocate(bookingFor(4, "2024-06-01", "19:00"))
	assert.NoError(t, err)
	assert.Equal(t, models.ReservationStatusPending, res.Status)
	assert.Equal(t, table.ID, res.TableID)
	assert.Equal(t, models.SplitNone, res.Side)
	assert.Equal(t, "2024-06-01", res.Date.Format("2006-01-02"))
}

func TestAllocateSecondRequestSameSlotFails(t *testing.T) {
	db := setupServiceDB(t)
	seedTable(t, db, models.Table{TableNumber: 1, Capacity: 4})
	allocator := NewAllocator(db, NewTableLocks())

	_, err := allocator.Allocate(bookingFor(4, "2024-06-01", "19:00"))
	assert.NoError(t, err)

	_, err = allocator.Allocate(bookingFor(4, "2024-06-01", "19:00"))
	assert.ErrorIs(t, err, ErrNoTableAvailable)

	// No reservation may be written on failure.
	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// A different slot on the same table is still bookable.
	_, err = allocator.Allocate(bookingFor(4, "2024-06-01", "21:00"))
	assert.NoError(t, err)
}

func TestAllocateValidationCollectsAllFields(t *testing.T) {
	db := setupServiceDB(t)
	allocator := NewAllocator(db, NewTableLocks())

	_, err := allocator.Allocate(BookingRequest{})

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 6)

	// Nothing persisted on validation failure.
	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAllocateRejectsMalformedDateAndTime(t *testing.T) {
	db := setupServiceDB(t)
	seedTable(t, db, models.Table{TableNumber: 1, Capacity: 4})
	allocator := NewAllocator(db, NewTableLocks())

	req := bookingFor(4, "01/06/2024", "7pm")
	_, err := allocator.Allocate(req)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestAllocatePicksSmallestSufficientTable(t *testing.T) {
	db := setupServiceDB(t)
	seedTable(t, db, models.Table{TableNumber: 2, Capacity: 8})
	six := seedTable(t, db, models.Table{TableNumber: 1, Capacity: 6})
	allocator := NewAllocator(db, NewTableLocks())

	res, err := allocator.Allocate(bookingFor(5, "2024-06-01", "19:00"))
	assert.NoError(t, err)
	assert.Equal(t, six.ID, res.TableID)
}

func TestAllocateTieBreaksByTableNumber(t *testing.T) {
	db := setupServiceDB(t)
	seedTable(t, db, models.Table{TableNumber: 5, Capacity: 6})
	three := seedTable(t, db, models.Table{TableNumber: 3, Capacity: 6})
	allocator := NewAllocator(db, NewTableLocks())

	res, err := allocator.Allocate(bookingFor(6, "2024-06-01", "19:00"))
	assert.NoError(t, err)
	assert.Equal(t, three.ID, res.TableID)
}

func TestAllocateBusinessBookingPrefersBusinessTable(t *testing.T) {
	db := setupServiceDB(t)
	seedTable(t, db, models.Table{TableNumber: 1, Capacity: 4})
	business := seedTable(t, db, models.Table{TableNumber: 2, Capacity: 4, TableType: models.TableTypeBusiness})
	allocator := NewAllocator(db, NewTableLocks())

	req := bookingFor(4, "2024-06-01", "19:00")
	req.ReservationType = models.ReservationTypeBusiness
	res, err := allocator.Allocate(req)
	assert.NoError(t, err)
	assert.Equal(t, business.ID, res.TableID)
	assert.Equal(t, models.ReservationTypeBusiness, res.ReservationType)
}

func TestAllocateWidensToOtherTypesWhenHintedTypeIsFull(t *testing.T) {
	db := setupServiceDB(t)
	normal := seedTable(t, db, models.Table{TableNumber: 1, Capacity: 4})
	business := seedTable(t, db, models.Table{TableNumber: 2, Capacity: 4, TableType: models.TableTypeBusiness})
	allocator := NewAllocator(db, NewTableLocks())

	req := bookingFor(4, "2024-06-01", "19:00")
	req.ReservationType = models.ReservationTypeBusiness
	first, err := allocator.Allocate(req)
	assert.NoError(t, err)
	assert.Equal(t, business.ID, first.TableID)

	// The only business table is taken; the booking lands on a standard one.
	second, err := allocator.Allocate(req)
	assert.NoError(t, err)
	assert.Equal(t, normal.ID, second.TableID)
}

func TestDivisibleTableSeatsTwoSmallParties(t *testing.T) {
	db := setupServiceDB(t)
	seedTable(t, db, models.Table{TableNumber: 3, Capacity: 8, IsDivisible: true, TableType: models.TableTypeDinner})
	allocator := NewAllocator(db, NewTableLocks())

	first, err := allocator.Allocate(bookingFor(3, "2024-06-01", "19:00"))
	assert.NoError(t, err)
	assert.Equal(t, models.SplitLeft, first.Side)

	second, err := allocator.Allocate(bookingFor(3, "2024-06-01", "19:00"))
	assert.NoError(t, err)
	assert.Equal(t, models.SplitRight, second.Side)

	// Both halves taken now.
	_, err = allocator.Allocate(bookingFor(3, "2024-06-01", "19:00"))
	assert.ErrorIs(t, err, ErrNoTableAvailable)
}

func TestDivisibleTableSlotsAreIndependent(t *testing.T) {
	db := setupServiceDB(t)
	seedTable(t, db, models.Table{TableNumber: 3, Capacity: 8, IsDivisible: true, TableType: models.TableTypeDinner})
	allocator := NewAllocator(db, NewTableLocks())

	// Interleave two slots; each slot must fill left then right on its own.
	dinner1, err := allocator.Allocate(bookingFor(3, "2024-06-01", "19:00"))
	assert.NoError(t, err)
	late1, err := allocator.Allocate(bookingFor(3, "2024-06-01", "21:00"))
	assert.NoError(t, err)
	dinner2, err := allocator.Allocate(bookingFor(3, "2024-06-01", "19:00"))
	assert.NoError(t, err)
	late2, err := allocator.Allocate(bookingFor(3, "2024-06-01", "21:00"))
	assert.NoError(t, err)

	assert.Equal(t, models.SplitLeft, dinner1.Side)
	assert.Equal(t, models.SplitRight, dinner2.Side)
	assert.Equal(t, models.SplitLeft, late1.Side)
	assert.Equal(t, models.SplitRight, late2.Side)

	// No half may be handed out twice within one slot.
	assert.NotEqual(t, dinner1.Side, dinner2.Side)
	assert.NotEqual(t, late1.Side, late2.Side)

	_, err = allocator.Allocate(bookingFor(3, "2024-06-01", "19:00"))
	assert.ErrorIs(t, err, ErrNoTableAvailable)
	_, err = allocator.Allocate(bookingFor(3, "2024-06-01", "21:00"))
	assert.ErrorIs(t, err, ErrNoTableAvailable)
}

func TestDivisibleTableWholeForLargeParty(t *testing.T) {
	db := setupServiceDB(t)
	eight := seedTable(t, db, models.Table{TableNumber: 3, Capacity: 8, IsDivisible: true})
	allocator := NewAllocator(db, NewTableLocks())

	res, err := allocator.Allocate(bookingFor(8, "2024-06-01", "19:00"))
	assert.NoError(t, err)
	assert.Equal(t, eight.ID, res.TableID)
	assert.Equal(t, models.SplitNone, res.Side)

	// The whole table is occupied; no half is offered to a small party.
	_, err = allocator.Allocate(bookingFor(3, "2024-06-01", "19:00"))
	assert.ErrorIs(t, err, ErrNoTableAvailable)
}

func TestAllocateSkipsManuallyUnavailableTable(t *testing.T) {
	db := setupServiceDB(t)
	table := seedTable(t, db, models.Table{TableNumber: 1, Capacity: 4})
	db.Model(&models.Table{}).Where("id = ?", table.ID).Update("is_available", false)
	allocator := NewAllocator(db, NewTableLocks())

	_, err := allocator.Allocate(bookingFor(4, "2024-06-01", "19:00"))
	assert.ErrorIs(t, err, ErrNoTableAvailable)
}

func TestAllocateConcurrentRequestsBookExactlyOnce(t *testing.T) {
	db := setupServiceDB(t)
	seedTable(t, db, models.Table{TableNumber: 1, Capacity: 4})
	allocator := NewAllocator(db, NewTableLocks())

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = allocator.Allocate(bookingFor(4, "2024-06-01", "19:00"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, errors.Is(err, ErrNoTableAvailable), "unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
