package game

import (
	"sync"

	"github.com/niqqow96/Backend-PKROnchain/pkg/logger"

	"go.uber.org/zap"
)

type OutgoingMessage struct {
	Type string      `json:"type"`
	Seq  int64       `json:"seq"`
	Data interface{} `json:"data"`
}

// Hub fans committed table state out to websocket subscribers. Each
// subscriber gets its own masked view; slow readers drop messages instead
// of blocking the writer.
type Hub struct {
	mu     sync.Mutex
	buffer int
	subs   map[string]map[string]chan OutgoingMessage
	seq    map[string]int64
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 8
	}
	return &Hub{
		buffer: buffer,
		subs:   make(map[string]map[string]chan OutgoingMessage),
		seq:    make(map[string]int64),
	}
}

// Subscribe registers viewer on tableID, replacing any previous channel of
// the same viewer.
func (h *Hub) Subscribe(tableID, viewer string) chan OutgoingMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	viewers, ok := h.subs[tableID]
	if !ok {
		viewers = make(map[string]chan OutgoingMessage)
		h.subs[tableID] = viewers
	}
	if old, ok := viewers[viewer]; ok {
		close(old)
	}
	ch := make(chan OutgoingMessage, h.buffer)
	viewers[viewer] = ch
	return ch
}

func (h *Hub) Unsubscribe(tableID, viewer string, ch chan OutgoingMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	viewers := h.subs[tableID]
	if cur, ok := viewers[viewer]; ok && cur == ch {
		delete(viewers, viewer)
		close(ch)
	}
	if len(viewers) == 0 {
		delete(h.subs, tableID)
		delete(h.seq, tableID)
	}
}

// Publish sends every subscriber of t its own view of the table.
func (h *Hub) Publish(t *Table) {
	h.mu.Lock()
	defer h.mu.Unlock()

	viewers := h.subs[t.ID]
	if len(viewers) == 0 {
		return
	}
	seq := h.nextSeqLocked(t.ID)
	for viewer, ch := range viewers {
		h.pushLocked(t.ID, viewer, ch, OutgoingMessage{Type: "state", Seq: seq, Data: t.View(viewer)})
	}
}

// Send delivers msg to a single subscriber.
func (h *Hub) Send(tableID, viewer string, msg OutgoingMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subs[tableID][viewer]; ok {
		msg.Seq = h.nextSeqLocked(tableID)
		h.pushLocked(tableID, viewer, ch, msg)
	}
}

func (h *Hub) nextSeqLocked(tableID string) int64 {
	h.seq[tableID]++
	return h.seq[tableID]
}

func (h *Hub) pushLocked(tableID, viewer string, ch chan OutgoingMessage, msg OutgoingMessage) {
	select {
	case ch <- msg:
	default:
		logger.Log.Warn("ws subscriber channel full", zap.String("viewer", viewer), zap.String("tableID", tableID))
	}
}
