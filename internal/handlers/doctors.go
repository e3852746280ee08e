package handlers

import (
	"github.com/gin-gonic/gin"

	"healthpulse-server/internal/specialization"
	"healthpulse-server/internal/storage"
	"healthpulse-server/internal/utils"
)

// DoctorHandler exposes the doctor directory.
type DoctorHandler struct {
	Directory *storage.GormDoctorDirectory
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(directory *storage.GormDoctorDirectory) *DoctorHandler {
	return &DoctorHandler{Directory: directory}
}

// GetDoctors lists doctors, optionally filtered by ?specialization= and
// ?available=true.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	spec := specialization.Specialization(c.Query("specialization"))
	onlyAvailable := c.Query("available") == "true"

	doctors, err := h.Directory.ListDoctors(c.Request.Context(), spec, onlyAvailable)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	utils.Success(c, "Doctors fetched successfully", doctors)
}
