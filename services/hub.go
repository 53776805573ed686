package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bellapacxx/lottery-backend/utils/logger"
)

// RoundState is the payload pushed to websocket clients whenever the live
// round changes.
type RoundState struct {
	RoundID        uint64          `json:"roundId"`
	Status         string          `json:"status"`
	StartTime      time.Time       `json:"startTime"`
	EndTime        time.Time       `json:"endTime"`
	WinningNumbers []int           `json:"winningNumbers"`
	TotalBetAmount decimal.Decimal `json:"totalBetAmount"`
	Participants   int             `json:"participants"`
	Paused         bool            `json:"paused"`
}

// Hub fans round-state updates out to connected websocket clients. Slow
// clients get messages dropped rather than blocking the engine.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]bool)}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.mu.Unlock()

	go c.writePump()
	go c.readPump()
	logger.Infof("[Hub] client connected (total=%d)", count)
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.Close()
	}
	h.mu.Unlock()
}

// Broadcast marshals state once and sends it to every client.
func (h *Hub) Broadcast(state RoundState) {
	b, err := json.Marshal(state)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.trySend(b)
	}
}
