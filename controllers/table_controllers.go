package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/elmanzah/reservation-app/models"
	"github.com/elmanzah/reservation-app/services"
	"github.com/elmanzah/reservation-app/utils"
)

type TableController struct {
	DB           *gorm.DB
	Availability *services.AvailabilityService
	Cleanup      *services.CleanupService
	Locks        *services.TableLocks
}

func NewTableController(db *gorm.DB, locks *services.TableLocks) *TableController {
	return &TableController{
		DB:           db,
		Availability: services.NewAvailabilityService(db),
		Cleanup:      services.NewCleanupService(db),
		Locks:        locks,
	}
}

// CreateTable -> staff adds a new table.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber int    `json:"table_number" binding:"required"`
		Capacity    int    `json:"capacity" binding:"required"`
		TableType   string `json:"table_type"`
		IsDivisible bool   `json:"is_divisible"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.TableNumber < 1 || req.Capacity < 1 {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("table number and capacity must be positive numbers"))
		return
	}
	if req.TableType == "" {
		req.TableType = models.TableTypeNormal
	}
	if !models.ValidTableType(req.TableType) {
		utils.RespondError(c, http.StatusBadRequest, services.ErrInvalidTableType)
		return
	}

	var existing models.Table
	err := tc.DB.Where("table_number = ?", req.TableNumber).First(&existing).Error
	if err == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("table number already exists"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to create table"))
		return
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		TableType:   req.TableType,
		IsAvailable: true,
		IsDivisible: req.IsDivisible,
		SplitStatus: models.SplitNone,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.ErrorLogger.Printf("Error creating table: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to create table"))
		return
	}

	utils.InfoLogger.Printf("New table created: %d (capacity=%d type=%s divisible=%t)",
		table.TableNumber, table.Capacity, table.TableType, table.IsDivisible)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> every table, lowest number first.
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("table_number asc").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to fetch tables"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail of one table.
func (tc *TableController) GetTableByID(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable -> partial update of capacity, type, availability or
// divisibility. Takes the table lock so a manual edit cannot clobber a
// concurrent allocation.
func (tc *TableController) UpdateTable(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}

	var req struct {
		Capacity    *int    `json:"capacity"`
		TableType   *string `json:"table_type"`
		IsAvailable *bool   `json:"is_available"`
		IsDivisible *bool   `json:"is_divisible"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Capacity != nil && *req.Capacity < 1 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid capacity value"))
		return
	}
	if req.TableType != nil && !models.ValidTableType(*req.TableType) {
		utils.RespondError(c, http.StatusBadRequest, services.ErrInvalidTableType)
		return
	}

	lock := tc.Locks.ForTable(id)
	lock.Lock()
	defer lock.Unlock()

	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	updates := map[string]interface{}{}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.TableType != nil {
		updates["table_type"] = *req.TableType
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}
	if req.IsDivisible != nil {
		updates["is_divisible"] = *req.IsDivisible
		if !*req.IsDivisible {
			updates["split_status"] = models.SplitNone
		}
	}

	if len(updates) > 0 {
		if err := tc.DB.Model(&table).Updates(updates).Error; err != nil {
			utils.ErrorLogger.Printf("Error updating table %d: %v", id, err)
			utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to update table"))
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// UpdateTableStatus -> the manual availability toggle.
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Status != "available" && body.Status != "occupied" {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New(`invalid status, must be either "available" or "occupied"`))
		return
	}

	lock := tc.Locks.ForTable(id)
	lock.Lock()
	defer lock.Unlock()

	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	err := tc.DB.Model(&table).Update("is_available", body.Status == "available").Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to update table status"))
		return
	}

	utils.InfoLogger.Printf("Table %d marked %s", table.TableNumber, body.Status)
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

// UpdateTablePosition -> stores the x/y position from the layout editor.
func (tc *TableController) UpdateTablePosition(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}

	var body struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.X == nil || body.Y == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid coordinates, x and y must be numbers"))
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	err := tc.DB.Model(&table).Updates(map[string]interface{}{
		"position_x": *body.X,
		"position_y": *body.Y,
	}).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to update table position"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table position updated", table)
}

// DeleteTable -> refused while active reservations still point at the
// table; stale bookings must be cancelled or cleaned first.
func (tc *TableController) DeleteTable(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	active, err := tc.Cleanup.ActiveReservationCount(table.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to delete table"))
		return
	}
	if active > 0 {
		utils.RespondError(c, http.StatusConflict, services.ErrTableInUse)
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.ErrorLogger.Printf("Error deleting table %d: %v", id, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to delete table"))
		return
	}

	utils.InfoLogger.Printf("Table %d deleted", table.TableNumber)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": table.ID})
}

// availableTable is one entry of the availability report. AvailableSide is
// only set for divisible tables the party could share.
type availableTable struct {
	models.Table
	AvailableSide string `json:"available_side,omitempty"`
}

// FindAvailableTables -> candidates for a party size, optionally filtered
// down to tables that are actually free at a date/time slot.
func (tc *TableController) FindAvailableTables(c *gin.Context) {
	partySize, err := strconv.Atoi(c.Query("partySize"))
	if err != nil || partySize < 1 {
		utils.RespondError(c, http.StatusBadRequest, services.ErrInvalidPartySize)
		return
	}

	typeHint := c.Query("tableType")
	if typeHint != "" && !models.ValidTableType(typeHint) {
		utils.RespondError(c, http.StatusBadRequest, services.ErrInvalidTableType)
		return
	}

	candidates, err := tc.Availability.FindCandidates(partySize, typeHint)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to fetch available tables"))
		return
	}

	dateStr := c.Query("date")
	timeStr := c.Query("time")
	if dateStr == "" || timeStr == "" {
		utils.RespondJSON(c, http.StatusOK, "Candidate tables", candidates)
		return
	}

	date, err := services.ParseReservationDate(dateStr)
	if err != nil || !services.ValidReservationTime(timeStr) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid date or time"))
		return
	}

	checker := services.NewConflictChecker(tc.DB)
	free := make([]availableTable, 0, len(candidates))
	for i := range candidates {
		slot, err := checker.CheckSlot(&candidates[i], partySize, date, timeStr)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to fetch available tables"))
			return
		}
		if !slot.Free {
			continue
		}

		entry := availableTable{Table: candidates[i]}
		if candidates[i].CanSplit(partySize) {
			if slot.Side == models.SplitNone {
				entry.AvailableSide = "both"
			} else {
				entry.AvailableSide = string(slot.Side)
			}
		}
		free = append(free, entry)
	}

	utils.RespondJSON(c, http.StatusOK, "Available tables", free)
}

// CountTables -> total table count for the dashboard.
func (tc *TableController) CountTables(c *gin.Context) {
	var count int64
	if err := tc.DB.Model(&models.Table{}).Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to count tables"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table count", gin.H{"count": count})
}
