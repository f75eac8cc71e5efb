package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"communityBack/internal/feed"
	"communityBack/internal/models"
)

const (
	readLimit     = 64 << 10
	readDeadline  = 120 * time.Second // extended by every pong
	writeDeadline = 5 * time.Second
	pingInterval  = 15 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ListingsWebSocketHandler opens a live feed session for ?kind=. Client
// frames mutate the filters; every completed fetch is pushed back.
func (app *application) ListingsWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseListingKind(r.URL.Query().Get("kind"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.logger.Warn("websocket upgrade error", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	session, err := app.hub.Open(ctx, kind)
	if err != nil {
		cancel()
		_ = writeClose(conn, websocket.CloseInternalServerErr, "feed unavailable")
		_ = conn.Close()
		return
	}
	app.logger.Info("live feed opened", zap.String("session", session.ID), zap.String("kind", string(kind)))

	done := make(chan struct{})
	go app.feedWriter(conn, session, done)
	app.feedReader(conn, session)

	cancel()
	app.hub.Remove(session)
	<-done
	_ = conn.Close()
	app.logger.Info("live feed closed", zap.String("session", session.ID))
}

func (app *application) feedReader(conn *websocket.Conn, session *feed.Session) {
	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				app.logger.Warn("live feed read error", zap.String("session", session.ID), zap.Error(err))
			}
			return
		}

		var msg feed.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			app.logger.Debug("live feed bad frame", zap.String("session", session.ID), zap.Error(err))
			continue
		}
		if err := session.Apply(msg); err != nil {
			app.logger.Debug("live feed rejected frame", zap.String("session", session.ID), zap.Error(err))
		}
	}
}

// feedWriter is the only goroutine writing to conn. It returns when the
// session's updates channel closes or a write fails.
func (app *application) feedWriter(conn *websocket.Conn, session *feed.Session, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case u, ok := <-session.Updates():
			if !ok {
				_ = writeClose(conn, websocket.CloseNormalClosure, "")
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteJSON(u); err != nil {
				app.logger.Warn("live feed write error", zap.String("session", session.ID), zap.Error(err))
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

func writeClose(conn *websocket.Conn, code int, reason string) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(writeDeadline),
	)
}
