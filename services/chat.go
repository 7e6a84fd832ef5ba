package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"bikefood/models"
)

// ChatLog is the chat transport collaborator: an append-only transcript
// per peer. The core only hands it peer identities; transcript contents
// never cross back into the coordinator.
type ChatLog struct {
	mu     sync.Mutex
	byPeer map[string][]models.Message
	reply  func(peerID, text string) string
}

func NewChatLog() *ChatLog {
	return &ChatLog{byPeer: make(map[string][]models.Message)}
}

// SetAutoReply installs a canned-response hook; the peer's reply is
// appended right after each sent message. Used by the demo shell.
func (l *ChatLog) SetAutoReply(fn func(peerID, text string) string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reply = fn
}

// Send appends a message to the peer's transcript and returns it.
func (l *ChatLog) Send(peerID string, sent bool, text string) models.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := l.append(peerID, sent, text)
	if sent && l.reply != nil {
		if r := l.reply(peerID, text); r != "" {
			l.append(peerID, false, r)
		}
	}
	return msg
}

func (l *ChatLog) append(peerID string, sent bool, text string) models.Message {
	msg := models.Message{
		ID:     uuid.NewString(),
		PeerID: peerID,
		Sent:   sent,
		Text:   text,
		SentAt: time.Now(),
	}
	l.byPeer[peerID] = append(l.byPeer[peerID], msg)
	return msg
}

// Transcript returns the peer's messages oldest first.
func (l *ChatLog) Transcript(peerID string) []models.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	msgs := l.byPeer[peerID]
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out
}
