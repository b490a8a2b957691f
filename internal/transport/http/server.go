package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jhonatanGuingo/API-BatePapo-UOL/internal/chat"
	"github.com/jhonatanGuingo/API-BatePapo-UOL/internal/config"
)

// NewServer builds the HTTP server with the chat routes.
func NewServer(svc *chat.Service, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(LoggerMiddleware(logger), gin.Recovery())

	participants := NewParticipantHandlers(svc, logger)
	messages := NewMessageHandlers(svc, logger)

	router.GET("/health", healthHandler)
	router.POST("/participants", participants.Register)
	router.GET("/participants", participants.List)
	router.POST("/messages", messages.Post)
	router.GET("/messages", messages.List)
	router.POST("/status", participants.Heartbeat)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
