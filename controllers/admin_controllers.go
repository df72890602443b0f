package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/elmanzah/reservation-app/models"
	"github.com/elmanzah/reservation-app/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats -> one call feeding the admin dashboard cards.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	var tableCount, userCount, totalReservations, pendingCount, confirmedCount int64

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&tableCount, ac.DB.Model(&models.Table{})},
		{&userCount, ac.DB.Model(&models.User{})},
		{&totalReservations, ac.DB.Model(&models.Reservation{})},
		{&pendingCount, ac.DB.Model(&models.Reservation{}).Where("status = ?", models.ReservationStatusPending)},
		{&confirmedCount, ac.DB.Model(&models.Reservation{}).Where("status = ?", models.ReservationStatusConfirmed)},
	}
	for _, cnt := range counts {
		if err := cnt.query.Count(cnt.dest).Error; err != nil {
			utils.ErrorLogger.Printf("Error computing dashboard stats: %v", err)
			utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to compute dashboard stats"))
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", gin.H{
		"tables":       tableCount,
		"users":        userCount,
		"reservations": totalReservations,
		"pending":      pendingCount,
		"confirmed":    confirmedCount,
	})
}
