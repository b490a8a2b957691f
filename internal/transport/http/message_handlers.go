package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jhonatanGuingo/API-BatePapo-UOL/internal/chat"
	"github.com/jhonatanGuingo/API-BatePapo-UOL/internal/store"
)

// MessageHandlers provides HTTP handlers for the message log.
type MessageHandlers struct {
	svc *chat.Service
	log *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(svc *chat.Service, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		svc: svc,
		log: logger,
	}
}

// MessageResponse represents a message in API responses. time keeps the
// original wire format, a local HH:MM:SS clock reading.
type MessageResponse struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
	Time string `json:"time"`
}

// Post handles posting a message as the caller's claimed identity.
// POST /messages
func (h *MessageHandlers) Post(c *gin.Context) {
	user := claimedIdentity(c)

	var req chat.NewMessage
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid message request")
		c.JSON(http.StatusUnprocessableEntity, []string{"invalid request body"})
		return
	}

	if err := h.svc.Post(c.Request.Context(), user, req); err != nil {
		var verr *chat.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusUnprocessableEntity, verr.Errors)
		case errors.Is(err, chat.ErrUnknownSender):
			c.String(http.StatusUnprocessableEntity, "Esse usuário não existe!")
		default:
			h.log.Error().Err(err).Str("from", user).Msg("failed to post message")
			c.String(http.StatusInternalServerError, err.Error())
		}
		return
	}

	c.Status(http.StatusCreated)
}

// List returns the messages visible to the caller, capped by the limit query
// parameter.
// GET /messages?limit=N
func (h *MessageHandlers) List(c *gin.Context) {
	user := claimedIdentity(c)
	rawLimit := c.Query("limit")

	messages, err := h.svc.Messages(c.Request.Context(), user, rawLimit)
	if err != nil {
		if errors.Is(err, chat.ErrBadLimit) {
			c.String(http.StatusUnprocessableEntity, "limit must be a positive integer")
			return
		}
		h.log.Error().Err(err).Str("viewer", user).Msg("failed to list messages")
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		response = append(response, toMessageResponse(m))
	}

	c.JSON(http.StatusOK, response)
}

func toMessageResponse(m *store.Message) MessageResponse {
	return MessageResponse{
		ID:   m.ID,
		From: m.From,
		To:   m.To,
		Text: m.Text,
		Type: string(m.Type),
		Time: m.Time.Format("15:04:05"),
	}
}
