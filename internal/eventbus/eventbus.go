// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package eventbus fans chain events out to connected websocket
// subscribers (blocks, finality commitments, mempool acceptance),
// grounded on the hub/broadcast-channel shape used for real-time
// dashboards in the wider example pack.
package eventbus

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"
)

// log is the package-level subsystem logger, disabled by default.
var log = slog.Disabled

// DisableLog disables all library log output.
func DisableLog() {
	log = slog.Disabled
}

// UseLogger sets the subsystem logger used by this package.
func UseLogger(logger slog.Logger) {
	log = logger
}

// EventType names the kind of chain event being broadcast.
type EventType string

const (
	EventBlockConnected    EventType = "block_connected"
	EventBlockDisconnected EventType = "block_disconnected"
	EventTxAccepted        EventType = "tx_accepted"
	EventCommitmentFinal   EventType = "commitment_finalized"
)

// Event is the JSON envelope pushed to every subscriber.
type Event struct {
	Type EventType   `json:"type"`
	Time int64       `json:"time"`
	Data interface{} `json:"data"`
}

const (
	writeWait      = 5 * time.Second
	clientSendSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub maintains the set of subscribed websocket clients and
// broadcasts serialized Events to all of them.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]chan []byte)}
}

// Subscribe upgrades r to a websocket connection and registers it as
// a broadcast recipient until the connection closes.
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	send := make(chan []byte, clientSendSize)
	h.mu.Lock()
	h.clients[conn] = send
	n := len(h.clients)
	h.mu.Unlock()
	log.Debugf("event subscriber connected, %d total", n)

	go h.writePump(conn, send)
	go h.readPump(conn)
	return nil
}

// writePump drains send and writes each message to conn until the
// channel is closed by readPump detecting disconnection.
func (h *Hub) writePump(conn *websocket.Conn, send chan []byte) {
	for msg := range send {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.remove(conn)
			return
		}
	}
}

// readPump only exists to notice when the peer goes away; this bus is
// push-only and never interprets client messages.
func (h *Hub) readPump(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(conn)
			return
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	send, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
		close(send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	_ = conn.Close()
	log.Debugf("event subscriber disconnected, %d remaining", n)
}

// Publish serializes ev and fans it out to every connected subscriber.
// A subscriber whose send buffer is full is dropped rather than
// allowed to block the publisher.
func (h *Hub) Publish(ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, send := range h.clients {
		select {
		case send <- payload:
		default:
			log.Warnf("event subscriber send buffer full, dropping connection")
			delete(h.clients, conn)
			close(send)
			_ = conn.Close()
		}
	}
	return nil
}

// SubscriberCount reports how many clients are currently connected.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
