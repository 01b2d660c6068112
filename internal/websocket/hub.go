// internal/websocket/hub.go
package websocket

import (
	"context"
	"log"
	"sync"

	wstypes "tracksafe-service/internal/domain/websocket"
	"tracksafe-service/internal/pkg/jwt"
	"tracksafe-service/internal/pkg/session"
)

type Hub struct {
	// Registered clients by account ID
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *BroadcastMessage

	// Auth dependencies
	jwtVerifier    *jwt.Verifier
	sessionManager *session.Manager
}

type BroadcastMessage struct {
	AccountIDs []string
	Channel    wstypes.ChannelType
	Message    *wstypes.WSMessage
}

func NewHub(jwtVerifier *jwt.Verifier, sessionManager *session.Manager) *Hub {
	return &Hub{
		clients:        make(map[string]map[*Client]bool),
		Register:       make(chan *Client),
		unregister:     make(chan *Client),
		broadcast:      make(chan *BroadcastMessage, 256),
		jwtVerifier:    jwtVerifier,
		sessionManager: sessionManager,
	}
}

// AuthenticateClient validates the JWT token and creates an authenticated client
func (h *Hub) AuthenticateClient(ctx context.Context, token string) (*ClientAuth, error) {
	claims, err := h.jwtVerifier.VerifyAccessToken(token)
	if err != nil {
		return nil, err
	}

	blacklisted, err := h.sessionManager.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, ErrTokenBlacklisted
	}

	sessionData, err := h.sessionManager.GetSession(ctx, claims.AccountID, claims.ID)
	if err != nil {
		return nil, err
	}

	return &ClientAuth{
		AccountID: claims.AccountID,
		SessionID: claims.ID,
		Email:     sessionData.Email,
	}, nil
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.accountID] == nil {
		h.clients[client.accountID] = make(map[*Client]bool)
	}
	h.clients[client.accountID][client] = true

	log.Printf("Client connected: account=%s, session=%s, total=%d",
		client.accountID, client.sessionID, h.totalClients())

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"account_id": client.accountID,
		"session_id": client.sessionID,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.accountID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.accountID)
			}

			log.Printf("Client disconnected: account=%s, session=%s, total=%d",
				client.accountID, client.sessionID, h.totalClients())
		}
	}
}

func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.AccountIDs == nil {
		// Broadcast to all
		for _, clients := range h.clients {
			for client := range clients {
				if client.IsSubscribed(msg.Channel) {
					client.SendMessage(msg.Message)
				}
			}
		}
	} else {
		// Broadcast to specific accounts
		for _, accountID := range msg.AccountIDs {
			if clients, ok := h.clients[accountID]; ok {
				for client := range clients {
					if client.IsSubscribed(msg.Channel) {
						client.SendMessage(msg.Message)
					}
				}
			}
		}
	}
}

func (h *Hub) GetConnectedClients(accountID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.clients[accountID]; ok {
		return len(clients)
	}
	return 0
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

// Public methods for broadcasting

// EmitSignedIn notifies the account's connections that a new session
// signed in. Every listener receives exactly one event per state change.
func (h *Hub) EmitSignedIn(accountID, email, sessionID string) {
	msg := wstypes.NewMessage(wstypes.EventTypeSignedIn, wstypes.SessionEventData{
		AccountID: accountID,
		SessionID: sessionID,
		Email:     email,
	})
	h.broadcast <- &BroadcastMessage{
		AccountIDs: []string{accountID},
		Channel:    wstypes.ChannelSession,
		Message:    msg,
	}
}

// EmitSignedOut notifies the account's connections that a session ended.
func (h *Hub) EmitSignedOut(accountID, sessionID, reason string) {
	msg := wstypes.NewMessage(wstypes.EventTypeSignedOut, wstypes.SessionEventData{
		AccountID: accountID,
		SessionID: sessionID,
		Reason:    reason,
	})
	h.broadcast <- &BroadcastMessage{
		AccountIDs: []string{accountID},
		Channel:    wstypes.ChannelSession,
		Message:    msg,
	}
}

// EmitLocationRecorded pushes a freshly stored sample to the account's
// open dashboards.
func (h *Hub) EmitLocationRecorded(accountID string, data *wstypes.LocationEventData) {
	msg := wstypes.NewMessage(wstypes.EventTypeLocationRecorded, data)
	h.broadcast <- &BroadcastMessage{
		AccountIDs: []string{accountID},
		Channel:    wstypes.ChannelLocation,
		Message:    msg,
	}
}

func (h *Hub) ForceLogout(accountID string, sessionID string, reason string) {
	msg := wstypes.NewMessage(wstypes.EventTypeForceLogout, wstypes.SessionEventData{
		AccountID: accountID,
		SessionID: sessionID,
		Reason:    reason,
		Message:   "You have been logged out",
	})
	h.broadcast <- &BroadcastMessage{
		AccountIDs: []string{accountID},
		Channel:    wstypes.ChannelSystem,
		Message:    msg,
	}
}

// IsUserConnected checks if an account has any active connections
func (h *Hub) IsUserConnected(accountID string) bool {
	return h.GetConnectedClients(accountID) > 0
}

// DisconnectUser forcefully disconnects all sessions for an account
func (h *Hub) DisconnectUser(accountID string, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[accountID]; ok {
		disconnectMsg := wstypes.NewMessage(wstypes.EventTypeDisconnected, map[string]interface{}{
			"reason": reason,
		})

		for client := range clients {
			client.SendMessage(disconnectMsg)
			client.Close()
		}

		delete(h.clients, accountID)
		log.Printf("Disconnected all clients for account=%s, reason=%s", accountID, reason)
	}
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
}
