package controllers

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/elmanzah/reservation-app/models"
	"github.com/elmanzah/reservation-app/services"
	"github.com/elmanzah/reservation-app/utils"
)

type ReservationController struct {
	DB        *gorm.DB
	Allocator *services.Allocator
	Lifecycle *services.LifecycleService
	Cleanup   *services.CleanupService
}

func NewReservationController(db *gorm.DB, locks *services.TableLocks) *ReservationController {
	return &ReservationController{
		DB:        db,
		Allocator: services.NewAllocator(db, locks),
		Lifecycle: services.NewLifecycleService(db),
		Cleanup:   services.NewCleanupService(db),
	}
}

// CreateReservation -> public booking form and admin form both land here.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req services.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// The external intake has its own endpoint; bookings made here may
	// only be normal or business.
	if req.ReservationType == models.ReservationTypeExternal {
		req.ReservationType = models.ReservationTypeNormal
	}

	reservation, err := rc.Allocator.Allocate(req)
	if err != nil {
		rc.respondAllocationError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

func (rc *ReservationController) respondAllocationError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondValidationErrors(c, verr.Fields)
	case errors.Is(err, services.ErrNoTableAvailable),
		errors.Is(err, services.ErrInvalidPartySize):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.ErrorLogger.Printf("Error creating reservation: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to create reservation"))
	}
}

// GetAllReservations -> every reservation with its table summary, newest
// date first. Rows whose table reference dangles are filtered out.
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	var reservations []models.Reservation
	err := rc.DB.Preload("Table").Order("date desc").Find(&reservations).Error
	if err != nil {
		utils.ErrorLogger.Printf("Error fetching reservations: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to fetch reservations"))
		return
	}

	valid := make([]models.Reservation, 0, len(reservations))
	for _, r := range reservations {
		if r.Table.ID != 0 {
			valid = append(valid, r)
		}
	}

	utils.RespondJSON(c, http.StatusOK, "List of reservations", valid)
}

// UpdateReservationStatus -> staff moves a reservation through its
// lifecycle (confirm, cancel, complete).
func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	id, ok := paramID(c, "reservation_id")
	if !ok {
		return
	}

	reservation, err := rc.Lifecycle.SetStatus(id, body.Status)
	switch {
	case err == nil:
		utils.RespondJSON(c, http.StatusOK, "Reservation status updated", reservation)
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New("reservation not found"))
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrIllegalTransition):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.ErrorLogger.Printf("Error updating reservation %d: %v", id, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to update reservation status"))
	}
}

// DeleteReservation -> hard delete by staff.
func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	id, ok := paramID(c, "reservation_id")
	if !ok {
		return
	}

	var reservation models.Reservation
	if err := rc.DB.First(&reservation, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("reservation not found"))
		return
	}

	if err := rc.DB.Delete(&reservation).Error; err != nil {
		utils.ErrorLogger.Printf("Error deleting reservation %d: %v", id, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to delete reservation"))
		return
	}

	utils.InfoLogger.Printf("Reservation %d deleted", reservation.ID)
	utils.RespondJSON(c, http.StatusOK, "Reservation deleted", gin.H{"id": reservation.ID})
}

// GetUpcomingReservations -> active reservations inside the next hour in
// the restaurant timezone, including the wrap past midnight.
func (rc *ReservationController) GetUpcomingReservations(c *gin.Context) {
	loc := restaurantLocation()
	now := time.Now().In(loc)
	inOneHour := now.Add(time.Hour)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	nextDay := time.Date(inOneHour.Year(), inOneHour.Month(), inOneHour.Day(), 0, 0, 0, 0, time.UTC)

	query := rc.DB.Preload("Table").
		Where("status IN ?", models.ActiveStatuses()).
		Order("date asc, time asc")

	if nextDay.Equal(today) {
		query = query.Where("date = ? AND time >= ? AND time <= ?",
			today, now.Format("15:04"), inOneHour.Format("15:04"))
	} else {
		query = query.Where(
			rc.DB.Where("date = ? AND time >= ?", today, now.Format("15:04")).
				Or("date = ? AND time <= ?", nextDay, inOneHour.Format("15:04")))
	}

	var reservations []models.Reservation
	if err := query.Find(&reservations).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching upcoming reservations: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to fetch upcoming reservations"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Upcoming reservations", reservations)
}

// CountReservations -> totals per status for the dashboard cards.
func (rc *ReservationController) CountReservations(c *gin.Context) {
	counts := map[string]int64{}
	statuses := []string{
		models.ReservationStatusPending,
		models.ReservationStatusConfirmed,
		models.ReservationStatusCancelled,
		models.ReservationStatusCompleted,
	}

	var total int64
	if err := rc.DB.Model(&models.Reservation{}).Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to count reservations"))
		return
	}
	for _, status := range statuses {
		var n int64
		if err := rc.DB.Model(&models.Reservation{}).Where("status = ?", status).Count(&n).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to count reservations"))
			return
		}
		counts[status] = n
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation counts", gin.H{
		"total":     total,
		"by_status": counts,
	})
}

// CleanReservations -> deletes reservations whose table no longer exists.
func (rc *ReservationController) CleanReservations(c *gin.Context) {
	ids, err := rc.Cleanup.CleanOrphans()
	if err != nil {
		utils.ErrorLogger.Printf("Cleanup error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("cleanup failed"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Orphaned reservations cleaned", gin.H{
		"deleted_count": len(ids),
		"deleted_ids":   ids,
	})
}

func restaurantLocation() *time.Location {
	name := os.Getenv("RESTAURANT_TZ")
	if name == "" {
		name = "Africa/Casablanca"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}
