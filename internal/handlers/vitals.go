package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"healthpulse-server/internal/middleware"
	"healthpulse-server/internal/models"
	"healthpulse-server/internal/notify"
	"healthpulse-server/internal/utils"
)

// VitalsHandler handles vital-sign readings.
type VitalsHandler struct {
	DB       *gorm.DB
	Notifier notify.Publisher
}

// NewVitalsHandler creates a new VitalsHandler.
func NewVitalsHandler(db *gorm.DB, notifier notify.Publisher) *VitalsHandler {
	return &VitalsHandler{DB: db, Notifier: notifier}
}

// SubmitVitalsRequest represents the request body for submitting a reading.
type SubmitVitalsRequest struct {
	HeartRate   int     `json:"heartRate" binding:"required,min=20,max=300"`
	BPSystolic  int     `json:"bpSystolic" binding:"required,min=40,max=300"`
	BPDiastolic int     `json:"bpDiastolic" binding:"required,min=20,max=200"`
	Oxygen      int     `json:"oxygen" binding:"required,min=50,max=100"`
	Temperature float64 `json:"temperature" binding:"required,min=30,max=45"`
	Sugar       int     `json:"sugar" binding:"required,min=20,max=600"`
	Symptoms    string  `json:"symptoms"`
}

// SubmitVitals stores a reading and pushes a realtime event to the user.
func (h *VitalsHandler) SubmitVitals(c *gin.Context) {
	var req SubmitVitalsRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	vitals := models.Vitals{
		UserID:      userID,
		HeartRate:   req.HeartRate,
		BPSystolic:  req.BPSystolic,
		BPDiastolic: req.BPDiastolic,
		Oxygen:      req.Oxygen,
		Temperature: req.Temperature,
		Sugar:       req.Sugar,
		Symptoms:    req.Symptoms,
		RecordedAt:  time.Now().UTC(),
	}

	if err := h.DB.Create(&vitals).Error; err != nil {
		utils.InternalServerError(c, "Failed to save vitals: "+err.Error())
		return
	}

	h.Notifier.Publish(notify.Event{
		Event:     notify.EventNewVitals,
		UserID:    userID,
		Timestamp: vitals.RecordedAt,
		Data:      vitals,
	})

	utils.Created(c, "Vitals recorded successfully", vitals)
}

// GetVitals returns the user's readings, newest first, optionally limited to
// the last N days and/or capped at a row limit.
func (h *VitalsHandler) GetVitals(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	query := h.DB.Where("user_id = ?", userID).Order("recorded_at desc")

	if daysStr := c.Query("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil || days < 1 {
			utils.BadRequest(c, "Invalid days parameter")
			return
		}
		since := time.Now().UTC().AddDate(0, 0, -days)
		query = query.Where("recorded_at >= ?", since)
	}

	limit := 1000
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			utils.BadRequest(c, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	var vitals []models.Vitals
	if err := query.Limit(limit).Find(&vitals).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch vitals: "+err.Error())
		return
	}

	utils.Success(c, "Vitals fetched successfully", vitals)
}
