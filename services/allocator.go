package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/elmanzah/reservation-app/models"
	"github.com/elmanzah/reservation-app/utils"
)

// BookingRequest carries everything needed to place a reservation,
// regardless of the channel it arrived on (public form, admin form or
// external intake).
type BookingRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	PartySize       int    `json:"party_size"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	SpecialRequests string `json:"special_requests"`
	ReservationType string `json:"reservation_type"`
}

// ParseReservationDate accepts "2006-01-02" or a full RFC3339 timestamp
// and normalizes it to midnight UTC so slot comparisons are exact.
func ParseReservationDate(value string) (time.Time, error) {
	if d, err := time.Parse("2006-01-02", value); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ValidReservationTime reports whether value is an HH:mm clock time.
func ValidReservationTime(value string) bool {
	_, err := time.Parse("15:04", value)
	return err == nil
}

// Validate checks every field and reports all problems at once. It returns
// the normalized date on success.
func (r *BookingRequest) Validate() (time.Time, *ValidationError) {
	verr := &ValidationError{}
	if r.CustomerName == "" {
		verr.Fields = append(verr.Fields, "Customer name is required")
	}
	if r.CustomerEmail == "" {
		verr.Fields = append(verr.Fields, "Customer email is required")
	}
	if r.CustomerPhone == "" {
		verr.Fields = append(verr.Fields, "Customer phone is required")
	}
	if r.PartySize < 1 {
		verr.Fields = append(verr.Fields, "Valid party size is required")
	}

	var date time.Time
	if r.Date == "" {
		verr.Fields = append(verr.Fields, "Date is required")
	} else {
		var err error
		date, err = ParseReservationDate(r.Date)
		if err != nil {
			verr.Fields = append(verr.Fields, "Date must be a valid calendar date")
		}
	}

	if r.Time == "" {
		verr.Fields = append(verr.Fields, "Time is required")
	} else if !ValidReservationTime(r.Time) {
		verr.Fields = append(verr.Fields, "Time must be in HH:mm format")
	}

	if r.ReservationType != "" && !models.ValidReservationType(r.ReservationType) {
		verr.Fields = append(verr.Fields, "Reservation type must be normal, business, or external")
	}

	if len(verr.Fields) > 0 {
		return time.Time{}, verr
	}
	return date, nil
}

// Allocator matches booking requests to tables and writes the reservation.
// All writes of one allocation are a single transaction guarded by the
// table's lock, so two concurrent requests cannot both observe a free slot
// and both book it.
type Allocator struct {
	db           *gorm.DB
	availability *AvailabilityService
	locks        *TableLocks
}

func NewAllocator(db *gorm.DB, locks *TableLocks) *Allocator {
	return &Allocator{
		db:           db,
		availability: NewAvailabilityService(db),
		locks:        locks,
	}
}

// Allocate validates the request, picks the best free table and persists a
// pending reservation on it. Business bookings first try business tables,
// every other booking first tries standard ones; if nothing of the hinted
// type is free the search widens to all types.
func (a *Allocator) Allocate(req BookingRequest) (*models.Reservation, error) {
	date, verr := req.Validate()
	if verr != nil {
		return nil, verr
	}
	if req.ReservationType == "" {
		req.ReservationType = models.ReservationTypeNormal
	}

	typeHint := models.TableTypeNormal
	if req.ReservationType == models.ReservationTypeBusiness {
		typeHint = models.TableTypeBusiness
	}

	hinted, err := a.availability.FindCandidates(req.PartySize, typeHint)
	if err != nil {
		return nil, err
	}
	if res, err := a.allocateFrom(hinted, req, date, nil); !errors.Is(err, ErrNoTableAvailable) {
		return res, err
	}

	// Nothing of the hinted type is free at that slot; rank across all
	// types before giving up.
	tried := make(map[uint]bool, len(hinted))
	for _, t := range hinted {
		tried[t.ID] = true
	}
	all, err := a.availability.FindCandidates(req.PartySize, "")
	if err != nil {
		return nil, err
	}
	return a.allocateFrom(all, req, date, tried)
}

func (a *Allocator) allocateFrom(candidates []models.Table, req BookingRequest, date time.Time, skip map[uint]bool) (*models.Reservation, error) {
	for i := range candidates {
		table := &candidates[i]
		if skip[table.ID] {
			continue
		}
		res, err := a.tryAllocate(table, req, date)
		if errors.Is(err, errSlotTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		utils.InfoLogger.Printf("Reservation %d allocated: table %d (%d seats) for party of %d on %s %s",
			res.ID, table.TableNumber, table.Capacity, req.PartySize, date.Format("2006-01-02"), req.Time)
		return res, nil
	}
	return nil, ErrNoTableAvailable
}

// tryAllocate books one candidate or reports errSlotTaken. The conflict
// check and the reservation insert commit together or not at all; the
// side written on the reservation is what later checks of the same slot
// read back.
func (a *Allocator) tryAllocate(table *models.Table, req BookingRequest, date time.Time) (*models.Reservation, error) {
	lock := a.locks.ForTable(table.ID)
	lock.Lock()
	defer lock.Unlock()

	var reservation *models.Reservation
	err := a.db.Transaction(func(tx *gorm.DB) error {
		// Reload inside the transaction; staff may have toggled the table
		// since the candidate list was built.
		var current models.Table
		if err := tx.First(&current, table.ID).Error; err != nil {
			return err
		}
		if !current.IsAvailable {
			return errSlotTaken
		}

		slot, err := NewConflictChecker(tx).CheckSlot(&current, req.PartySize, date, req.Time)
		if err != nil {
			return err
		}
		if !slot.Free {
			return errSlotTaken
		}

		side := models.SplitNone
		if current.CanSplit(req.PartySize) {
			side = slot.Side
			if side == models.SplitNone {
				// Whole table free; the first small party takes the left half.
				side = models.SplitLeft
			}
		}

		reservation = &models.Reservation{
			CustomerName:    req.CustomerName,
			CustomerEmail:   req.CustomerEmail,
			CustomerPhone:   req.CustomerPhone,
			PartySize:       req.PartySize,
			Date:            date,
			Time:            req.Time,
			SpecialRequests: req.SpecialRequests,
			Status:          models.ReservationStatusPending,
			ReservationType: req.ReservationType,
			TableID:         current.ID,
			Side:            side,
		}
		return tx.Create(reservation).Error
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}
