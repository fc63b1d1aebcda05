package errors

import (
	"sync"
	"time"
)

// MessageType classifies a recorded notice.
type MessageType int

const (
	MessageTypeError MessageType = iota
	MessageTypeWarning
	MessageTypeInfo
	MessageTypeSuccess
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeError:
		return "error"
	case MessageTypeWarning:
		return "warning"
	case MessageTypeSuccess:
		return "success"
	default:
		return "info"
	}
}

// Message is one recorded notice.
type Message struct {
	Text      string
	Type      MessageType
	Timestamp time.Time
}

// Recorder keeps notices in memory instead of printing them. The optional
// callback fires for every message after it is stored.
type Recorder struct {
	mu       sync.RWMutex
	messages []Message
	onNotice func(msg Message)
}

var _ ErrorHandler = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder(onNotice func(msg Message)) *Recorder {
	return &Recorder{onNotice: onNotice}
}

func (r *Recorder) Error(msg string)   { r.add(msg, MessageTypeError) }
func (r *Recorder) Warning(msg string) { r.add(msg, MessageTypeWarning) }
func (r *Recorder) Info(msg string)    { r.add(msg, MessageTypeInfo) }
func (r *Recorder) Success(msg string) { r.add(msg, MessageTypeSuccess) }

func (r *Recorder) add(text string, msgType MessageType) {
	message := Message{Text: text, Type: msgType, Timestamp: time.Now()}

	r.mu.Lock()
	r.messages = append(r.messages, message)
	cb := r.onNotice
	r.mu.Unlock()

	if cb != nil {
		cb(message)
	}
}

// Latest returns the most recent message.
func (r *Recorder) Latest() (Message, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}

// All returns a copy of every recorded message, oldest first.
func (r *Recorder) All() []Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	copied := make([]Message, len(r.messages))
	copy(copied, r.messages)
	return copied
}

// Clear drops every recorded message.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}
