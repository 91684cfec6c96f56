package realtime

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ayurmitra/panchakarma-api/internal/handler"
	"github.com/ayurmitra/panchakarma-api/internal/service/session"
	"github.com/ayurmitra/panchakarma-api/pkg/messaging"
)

const heartbeatInterval = 30 * time.Second

// Handler streams live session events to observers over SSE. Each open
// stream is one subscriber on the session's pub/sub room; emergency
// escalations are folded into every stream.
type Handler struct {
	sessions *session.Service
	broker   messaging.Broker
	logger   zerolog.Logger
}

func NewHandler(sessions *session.Service, broker messaging.Broker, logger zerolog.Logger) *Handler {
	return &Handler{sessions: sessions, broker: broker, logger: logger}
}

// StreamSession joins the caller to a session's room. The current session
// snapshot is sent first so a late joiner starts from consistent state.
func (h *Handler) StreamSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid session ID"))
		return
	}

	sess, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	roomCh, err := h.broker.Subscribe(ctx, messaging.SessionChannel(id.String()))
	if err != nil {
		handler.Error(c, err)
		return
	}
	emergencyCh, err := h.broker.Subscribe(ctx, messaging.EmergencyChannel)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("snapshot", sess)
	c.Writer.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case msg, ok := <-roomCh:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: update\ndata: %s\n\n", msg)
			c.Writer.Flush()
		case msg, ok := <-emergencyCh:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: emergency\ndata: %s\n\n", msg)
			c.Writer.Flush()
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": keepalive\n\n")
			c.Writer.Flush()
		case <-ctx.Done():
			h.logger.Debug().Str("session_id", id.String()).Msg("stream closed")
			return
		}
	}
}

// StreamEmergencies is the clinic-wide alert feed for supervising doctors.
func (h *Handler) StreamEmergencies(c *gin.Context) {
	ctx := c.Request.Context()
	ch, err := h.broker.Subscribe(ctx, messaging.EmergencyChannel)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: emergency\ndata: %s\n\n", msg)
			c.Writer.Flush()
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": keepalive\n\n")
			c.Writer.Flush()
		case <-ctx.Done():
			return
		}
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/sessions/:id/stream", h.StreamSession)
	r.GET("/emergencies/stream", h.StreamEmergencies)
}
