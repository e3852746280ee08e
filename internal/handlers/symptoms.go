package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"healthpulse-server/internal/ai"
	"healthpulse-server/internal/specialization"
	"healthpulse-server/internal/utils"
)

// SymptomHandler handles AI symptom guidance requests.
type SymptomHandler struct {
	AI       *ai.Client
	Resolver *specialization.Resolver
}

// NewSymptomHandler creates a new SymptomHandler.
func NewSymptomHandler(client *ai.Client, resolver *specialization.Resolver) *SymptomHandler {
	return &SymptomHandler{AI: client, Resolver: resolver}
}

// AnalyzeSymptomsRequest represents the request body for symptom analysis.
type AnalyzeSymptomsRequest struct {
	Symptoms string `json:"symptoms" binding:"required"`
}

// AnalyzeSymptoms returns AI-generated guidance for the described symptoms,
// along with the specialization the booking flow would resolve them to.
func (h *SymptomHandler) AnalyzeSymptoms(c *gin.Context) {
	var req AnalyzeSymptomsRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	analysis, err := h.AI.AnalyzeSymptoms(c.Request.Context(), req.Symptoms)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			utils.Error(c, http.StatusServiceUnavailable, "AI service is not configured")
		} else {
			utils.Error(c, http.StatusServiceUnavailable, "AI service unavailable")
		}
		return
	}

	utils.Success(c, "Symptoms analyzed successfully", gin.H{
		"analysis":       analysis,
		"specialization": h.Resolver.Resolve(req.Symptoms),
	})
}
