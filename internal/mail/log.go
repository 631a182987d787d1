package mail

import (
	"context"
	"log/slog"
	"sync"
)

// Message is an email captured by LogGateway
type Message struct {
	To      string
	Subject string
	HTML    string
}

// LogGateway logs emails instead of sending them and keeps the most recent
// ones in memory, which is what development and tests use
type LogGateway struct {
	mu       sync.Mutex
	messages []Message
}

func NewLogGateway() *LogGateway {
	return &LogGateway{}
}

func (g *LogGateway) Send(ctx context.Context, to, subject, htmlBody string) error {
	g.mu.Lock()
	g.messages = append(g.messages, Message{To: to, Subject: subject, HTML: htmlBody})
	if len(g.messages) > 100 {
		g.messages = g.messages[1:]
	}
	g.mu.Unlock()

	slog.Info("email sent (log provider)", "to", to, "subject", subject)
	slog.Debug("email body", "to", to, "html", htmlBody)
	return nil
}

// Messages returns a copy of the captured emails, oldest first
func (g *LogGateway) Messages() []Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Message(nil), g.messages...)
}

// Last returns the most recent email sent to the address
func (g *LogGateway) Last(to string) (Message, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := len(g.messages) - 1; i >= 0; i-- {
		if g.messages[i].To == to {
			return g.messages[i], true
		}
	}
	return Message{}, false
}
