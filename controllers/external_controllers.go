package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/elmanzah/reservation-app/models"
	"github.com/elmanzah/reservation-app/services"
	"github.com/elmanzah/reservation-app/utils"
)

// ExternalController handles booking intake from trusted partner sites.
// The origin allow-list check runs as middleware before these handlers.
type ExternalController struct {
	Reservations *ReservationController
}

func NewExternalController(db *gorm.DB, locks *services.TableLocks) *ExternalController {
	return &ExternalController{
		Reservations: NewReservationController(db, locks),
	}
}

// CreateExternalReservation -> same validation and allocation as the
// public form, but the booking is always tagged external.
func (ec *ExternalController) CreateExternalReservation(c *gin.Context) {
	var req services.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	req.ReservationType = models.ReservationTypeExternal

	reservation, err := ec.Reservations.Allocator.Allocate(req)
	if err != nil {
		ec.Reservations.respondAllocationError(c, err)
		return
	}

	utils.InfoLogger.Printf("External reservation %d created from origin %s",
		reservation.ID, c.GetHeader("Origin"))
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}
