// internal/client/backend/events.go
package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	wstypes "tracksafe-service/internal/domain/websocket"
	xerrors "tracksafe-service/internal/pkg/errors"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// AuthEvent is one session lifecycle notification pushed by the server.
type AuthEvent struct {
	Type wstypes.EventType
	Data wstypes.SessionEventData
}

// EventStream is a live websocket subscription to the server's session
// events. Events stops when the connection dies or Close is called.
type EventStream struct {
	conn   *websocket.Conn
	events chan AuthEvent
	logger *zap.Logger
}

// SubscribeAuthEvents opens a websocket to the server and streams session
// state changes for the signed-in account.
func (b *RESTBackend) SubscribeAuthEvents(ctx context.Context) (*EventStream, error) {
	token, err := b.tokens.Load()
	if err != nil || token == "" {
		return nil, xerrors.ErrNotAuthenticated
	}

	wsURL := toWebsocketURL(b.baseURL) + "/ws?token=" + url.QueryEscape(token)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, xerrors.ErrSessionExpired
		}
		return nil, xerrors.Wrap(xerrors.ErrBackendUnreachable, err.Error())
	}

	stream := &EventStream{
		conn:   conn,
		events: make(chan AuthEvent, 16),
		logger: b.logger,
	}
	go stream.readLoop(ctx)

	return stream, nil
}

// Events returns the channel session notifications arrive on.
func (s *EventStream) Events() <-chan AuthEvent {
	return s.events
}

// Close tears down the subscription.
func (s *EventStream) Close() error {
	return s.conn.Close()
}

func (s *EventStream) readLoop(ctx context.Context) {
	defer close(s.events)
	defer s.conn.Close()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("auth event stream closed", zap.Error(err))
			}
			return
		}

		msg, err := wstypes.ParseMessage(data)
		if err != nil {
			s.logger.Warn("unparseable auth event", zap.Error(err))
			continue
		}

		switch msg.Type {
		case wstypes.EventTypeSignedIn, wstypes.EventTypeSignedOut, wstypes.EventTypeForceLogout:
			var evt wstypes.SessionEventData
			if raw, err := json.Marshal(msg.Data); err == nil {
				_ = json.Unmarshal(raw, &evt)
			}

			select {
			case s.events <- AuthEvent{Type: msg.Type, Data: evt}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func toWebsocketURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
