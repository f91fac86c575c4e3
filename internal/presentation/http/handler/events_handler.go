package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/repository"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/response"
	"github.com/sangkips/gstbill-api/pkg/apperror"
)

const keepAliveInterval = 25 * time.Second

// EventsHandler relays change notifications as Server-Sent Events
type EventsHandler struct {
	subscriber repository.EventSubscriber
}

// NewEventsHandler creates a new events handler. A nil subscriber makes the
// stream answer 503.
func NewEventsHandler(subscriber repository.EventSubscriber) *EventsHandler {
	return &EventsHandler{subscriber: subscriber}
}

// Stream sends every event of the requested topic until the client leaves
func (h *EventsHandler) Stream(c *gin.Context) {
	if h.subscriber == nil {
		response.Error(c, apperror.NewUnavailableError("Live updates are not configured"))
		return
	}
	topic, ok := entity.ParseEventTopic(c.Param("topic"))
	if !ok {
		response.NotFound(c, "Unknown event topic")
		return
	}

	ctx := c.Request.Context()
	events, err := h.subscriber.Subscribe(ctx, topic)
	if err != nil {
		respondError(c, apperror.NewUnavailableError("Live updates are unavailable"))
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, open := <-events:
			if !open {
				return false
			}
			c.SSEvent(string(event.Topic), event)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		case <-ctx.Done():
			return false
		}
	})
}
