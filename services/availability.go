package services

import (
	"gorm.io/gorm"

	"github.com/elmanzah/reservation-app/models"
)

// AvailabilityService answers "which tables could seat this party" without
// looking at the booking calendar. Purely advisory; the conflict checker
// decides whether a slot is actually free.
type AvailabilityService struct {
	db *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db}
}

// FindCandidates returns candidate tables for a party, best fit first.
// When typeHint is set the search is first restricted to that table type
// and only widened to all types when the restricted pass finds nothing.
func (s *AvailabilityService) FindCandidates(partySize int, typeHint string) ([]models.Table, error) {
	if partySize < 1 {
		return nil, ErrInvalidPartySize
	}

	var tables []models.Table
	err := s.db.Where("is_available = ?", true).
		Order("capacity asc, table_number asc").
		Find(&tables).Error
	if err != nil {
		return nil, err
	}

	if typeHint != "" {
		if ranked := RankCandidates(tables, partySize, typeHint); len(ranked) > 0 {
			return ranked, nil
		}
	}
	return RankCandidates(tables, partySize, ""), nil
}

// RankCandidates filters and orders suitable tables. Exact-capacity
// matches win outright; only when there is none does the search widen to
// larger regular tables plus divisible 8-seaters for parties of four or
// fewer. Input must already be sorted by capacity then table number, which
// keeps the result deterministic for identical registry snapshots.
func RankCandidates(tables []models.Table, partySize int, typeHint string) []models.Table {
	var exact, larger []models.Table
	for _, t := range tables {
		if typeHint != "" && t.TableType != typeHint {
			continue
		}
		switch {
		case t.Capacity == partySize:
			exact = append(exact, t)
		case !t.IsDivisible && t.Capacity > partySize:
			larger = append(larger, t)
		case t.CanSplit(partySize):
			larger = append(larger, t)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return larger
}
