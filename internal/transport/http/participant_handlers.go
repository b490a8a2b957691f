package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jhonatanGuingo/API-BatePapo-UOL/internal/chat"
	"github.com/jhonatanGuingo/API-BatePapo-UOL/internal/store"
)

// ParticipantHandlers provides HTTP handlers for the participant registry.
type ParticipantHandlers struct {
	svc *chat.Service
	log *zerolog.Logger
}

// NewParticipantHandlers creates a new participant handlers instance.
func NewParticipantHandlers(svc *chat.Service, logger *zerolog.Logger) *ParticipantHandlers {
	return &ParticipantHandlers{
		svc: svc,
		log: logger,
	}
}

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Name string `json:"name"`
}

// ParticipantResponse represents a participant in API responses.
// lastStatus is milliseconds since epoch, as stored.
type ParticipantResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	LastStatus int64  `json:"lastStatus"`
}

// Register handles participant registration.
// POST /participants
func (h *ParticipantHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid register request")
		c.JSON(http.StatusUnprocessableEntity, []string{"invalid request body"})
		return
	}

	if err := h.svc.Register(c.Request.Context(), req.Name); err != nil {
		var verr *chat.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusUnprocessableEntity, verr.Errors)
		case errors.Is(err, chat.ErrNameTaken):
			c.String(http.StatusConflict, "Esse usuário já existe!")
		default:
			h.log.Error().Err(err).Str("participant", req.Name).Msg("failed to register participant")
			c.String(http.StatusInternalServerError, err.Error())
		}
		return
	}

	c.Status(http.StatusCreated)
}

// List handles listing every registered participant.
// GET /participants
func (h *ParticipantHandlers) List(c *gin.Context) {
	participants, err := h.svc.Participants(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list participants")
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	response := make([]ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		response = append(response, toParticipantResponse(p))
	}

	c.JSON(http.StatusOK, response)
}

// Heartbeat refreshes the caller's lastStatus.
// POST /status
func (h *ParticipantHandlers) Heartbeat(c *gin.Context) {
	user := claimedIdentity(c)

	if err := h.svc.Heartbeat(c.Request.Context(), user); err != nil {
		switch {
		case errors.Is(err, chat.ErrNoIdentity):
			c.Status(http.StatusNotFound)
		case errors.Is(err, chat.ErrUnknownParticipant):
			c.Status(http.StatusConflict)
		default:
			h.log.Error().Err(err).Str("participant", user).Msg("failed to refresh participant status")
			c.String(http.StatusInternalServerError, err.Error())
		}
		return
	}

	c.Status(http.StatusOK)
}

func toParticipantResponse(p *store.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:         p.ID,
		Name:       p.Name,
		LastStatus: p.LastStatus.UnixMilli(),
	}
}
