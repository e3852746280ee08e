package handlers

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthpulse-server/internal/middleware"
	"healthpulse-server/internal/models"
	"healthpulse-server/internal/notify"
	"healthpulse-server/internal/scheduler"
	"healthpulse-server/internal/specialization"
	"healthpulse-server/internal/storage"
	"healthpulse-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB        *gorm.DB
	Directory storage.DoctorDirectory
	Resolver  *specialization.Resolver
	Notifier  notify.Publisher
	Engine    *scheduler.Engine
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, directory storage.DoctorDirectory, resolver *specialization.Resolver, notifier notify.Publisher, engine *scheduler.Engine) *AppointmentHandler {
	return &AppointmentHandler{
		DB:        db,
		Directory: directory,
		Resolver:  resolver,
		Notifier:  notifier,
		Engine:    engine,
	}
}

// BookAppointmentRequest represents the request body for booking an appointment.
type BookAppointmentRequest struct {
	Reason        string     `json:"reason" binding:"required"`
	Notes         string     `json:"notes"`
	PreferredDate *time.Time `json:"preferredDate"`
	PreferredTime *string    `json:"preferredTime" binding:"omitempty,len=5"`
}

// BookAppointment creates a pending appointment for the authenticated
// patient. A best-effort doctor hint is stored immediately; the background
// scheduler makes the authoritative assignment when it confirms.
func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	var req BookAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	doctorName := models.UnassignedDoctor
	spec := h.Resolver.Resolve(req.Reason)
	if doctor, err := h.Directory.FindAvailable(c.Request.Context(), spec); err == nil && doctor != nil {
		doctorName = doctor.Name
	}

	appointment := models.Appointment{
		UserID:        userID,
		Reason:        req.Reason,
		Notes:         req.Notes,
		DoctorName:    doctorName,
		Status:        models.StatusPending,
		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,
	}

	if err := h.DB.Create(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to book appointment: "+err.Error())
		return
	}

	h.Notifier.Publish(notify.Event{
		Event:         notify.EventNewAppointment,
		UserID:        userID,
		AppointmentID: appointment.ID,
		DoctorName:    appointment.DoctorName,
		Status:        string(appointment.Status),
		Timestamp:     appointment.CreatedAt,
		Data:          appointment,
	})

	utils.Created(c, "Appointment booked successfully", appointment)
}

// GetAppointments handles fetching appointments for the logged-in user, with
// optional status, doctor and upcoming filters.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	query := h.DB.Where("user_id = ?", userID).Order("created_at desc")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if doctor := c.Query("doctor"); doctor != "" {
		query = query.Where("doctor_name LIKE ?", "%"+doctor+"%")
	}
	if c.Query("upcoming") == "true" {
		query = query.Where("preferred_date >= ?", time.Now())
	}

	var appointments []models.Appointment
	if err := query.Limit(100).Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID handles fetching a single appointment by its ID.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointment, ok := h.loadOwnedAppointment(c)
	if !ok {
		return
	}
	utils.Success(c, "Appointment fetched successfully", appointment)
}

// CancelAppointment lets the owning patient cancel a pending or confirmed
// appointment. The scheduler's conditional update guarantees a concurrently
// running pass cannot flip a cancelled appointment back to confirmed.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	appointment, ok := h.loadOwnedAppointment(c)
	if !ok {
		return
	}

	if appointment.Status != models.StatusPending && appointment.Status != models.StatusConfirmed {
		utils.BadRequest(c, "Only pending or confirmed appointments can be cancelled")
		return
	}

	appointment.Status = models.StatusCancelled
	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to cancel appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment cancelled successfully", appointment)
}

// GetAppointmentCalendar exports a confirmed appointment as an iCalendar file.
func (h *AppointmentHandler) GetAppointmentCalendar(c *gin.Context) {
	appointment, ok := h.loadOwnedAppointment(c)
	if !ok {
		return
	}

	if appointment.Status != models.StatusConfirmed || appointment.PreferredDate == nil {
		utils.BadRequest(c, "Only confirmed appointments with a scheduled date can be exported")
		return
	}

	start := *appointment.PreferredDate
	if appointment.PreferredTime != nil {
		if t, err := time.Parse("15:04", *appointment.PreferredTime); err == nil {
			start = start.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
		}
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	event := cal.AddEvent(appointment.ID)
	event.SetCreatedTime(appointment.CreatedAt)
	event.SetStartAt(start)
	event.SetEndAt(start.Add(30 * time.Minute))
	event.SetSummary(fmt.Sprintf("Appointment with %s", appointment.DoctorName))
	event.SetDescription(appointment.Reason)

	c.Header("Content-Disposition", "attachment; filename=appointment.ics")
	c.Data(200, "text/calendar", []byte(cal.Serialize()))
}

// RunAssignmentPass triggers one assignment pass on demand (admin only).
func (h *AppointmentHandler) RunAssignmentPass(c *gin.Context) {
	result, err := h.Engine.RunPass(c.Request.Context())
	if err != nil {
		utils.InternalServerError(c, "Assignment pass failed: "+err.Error())
		return
	}
	utils.Success(c, "Assignment pass completed", gin.H{
		"assigned": result.Assigned,
		"failed":   result.Failed,
		"skipped":  result.Skipped,
	})
}

// loadOwnedAppointment fetches the appointment in the path and checks the
// requester owns it (admins may access any).
func (h *AppointmentHandler) loadOwnedAppointment(c *gin.Context) (models.Appointment, bool) {
	var appointment models.Appointment

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return appointment, false
	}

	if err := h.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return appointment, false
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole != models.RoleAdmin && userID != appointment.UserID {
		utils.Forbidden(c, "You are not authorized to access this appointment")
		return appointment, false
	}

	return appointment, true
}
