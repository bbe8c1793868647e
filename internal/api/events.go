package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pageza/recipe-genius/backend/internal/service"
	"github.com/pageza/recipe-genius/backend/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// EventsHandler streams session snapshots over a WebSocket
type EventsHandler struct {
	session  *service.Session
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewEventsHandler(session *service.Session, l *zap.Logger) *EventsHandler {
	return &EventsHandler{
		session: session,
		logger:  logger.OrNop(l),
		upgrader: websocket.Upgrader{
			// Origins are enforced by the CORS middleware
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

func (h *EventsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/events", h.StreamEvents)
}

// StreamEvents sends the current snapshot on connect and a new one after every change.
// Slow clients only receive the latest snapshot.
func (h *EventsHandler) StreamEvents(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates := make(chan service.Snapshot, 1)
	unsubscribe := h.session.Subscribe(func(snap service.Snapshot) {
		select {
		case updates <- snap:
		default:
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- snap:
			default:
			}
		}
	})
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Debug("websocket read error", zap.Error(err))
				}
				return
			}
		}
	}()

	if err := h.write(conn, h.session.Snapshot()); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case snap := <-updates:
			if err := h.write(conn, snap); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *EventsHandler) write(conn *websocket.Conn, snap service.Snapshot) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(snap); err != nil {
		h.logger.Debug("websocket write failed", zap.Error(err))
		return err
	}
	return nil
}
