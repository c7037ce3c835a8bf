// AngelaMos | 2026
// service.go

package support

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/carterperez-dev/esimphony/internal/fixtures"
	"github.com/carterperez-dev/esimphony/internal/middleware"
	"github.com/carterperez-dev/esimphony/internal/session"
	"github.com/carterperez-dev/esimphony/internal/simulate"
	"github.com/carterperez-dev/esimphony/internal/storage"
)

var (
	ErrEmptyMessage  = errors.New("message is empty")
	ErrTopicNotFound = errors.New("help topic not found")
)

const (
	genericReply = "Thanks for reaching out. A support agent will get back to you shortly. " +
		"In the meantime, the help topics above cover the most common questions."
	topicReply = "It sounds like this is about %s. Have a look at: %s. " +
		"If that does not help, an agent will follow up here."
)

// topicKeywords routes a chat message to the help topic it most likely
// concerns.
var topicKeywords = map[string][]string{
	"activation": {"activate", "activation", "install", "qr", "esim"},
	"billing":    {"bill", "charge", "payment", "pay", "refund", "card", "top up", "top-up"},
	"plans":      {"plan", "coverage", "country", "data", "roaming"},
	"technical":  {"connection", "slow", "speed", "internet", "signal", "device"},
}

var topicOrder = []string{"activation", "billing", "plans", "technical"}

type Service struct {
	exec           *simulate.Executor
	contactLatency time.Duration
	logger         *slog.Logger
}

func NewService(exec *simulate.Executor, contactLatency time.Duration, logger *slog.Logger) *Service {
	return &Service{
		exec:           exec,
		contactLatency: contactLatency,
		logger:         logger,
	}
}

func (s *Service) Topics() *TopicsView {
	return &TopicsView{Topics: fixtures.HelpTopics()}
}

func (s *Service) Topic(id string) (fixtures.HelpTopic, error) {
	topic, ok := fixtures.HelpTopicByID(id)
	if !ok {
		return fixtures.HelpTopic{}, ErrTopicNotFound
	}
	return topic, nil
}

func (s *Service) newID() string {
	return ulid.MustNew(ulid.Timestamp(s.exec.Clock().Now()), ulid.DefaultEntropy()).String()
}

// Contact simulates sending the contact form. Nothing is stored.
func (s *Service) Contact(
	ctx context.Context,
	user *session.User,
	req ContactRequest,
) (*ContactResult, error) {
	subject := strings.TrimSpace(middleware.SanitizeText(req.Subject))
	message := strings.TrimSpace(middleware.SanitizeText(req.Message))
	if subject == "" || message == "" {
		return nil, ErrEmptyMessage
	}

	if err := s.exec.Delay(ctx, "support.contact", s.contactLatency); err != nil {
		return nil, err
	}

	result := &ContactResult{
		Reference: s.newID(),
		Subject:   subject,
		Email:     user.Email,
	}

	s.logger.InfoContext(ctx, "support request sent",
		"reference", result.Reference,
		"subject", subject,
		"length", len(message),
	)

	return result, nil
}

func (s *Service) Chat(ctx context.Context, store *session.Store) *ChatView {
	var messages []ChatMessage
	if !store.KV().Get(ctx, storage.KeyChatMessages, &messages) {
		messages = []ChatMessage{}
	}
	return &ChatView{Messages: messages}
}

// Send appends the user's message and the agent's canned reply.
func (s *Service) Send(ctx context.Context, store *session.Store, text string) (*ChatView, error) {
	text = strings.TrimSpace(middleware.SanitizeText(text))
	if text == "" {
		return nil, ErrEmptyMessage
	}

	view := s.Chat(ctx, store)
	now := s.exec.Clock().Now().UTC()

	view.Messages = append(view.Messages,
		ChatMessage{ID: s.newID(), Author: AuthorUser, Text: text, SentAt: now},
		ChatMessage{ID: s.newID(), Author: AuthorAgent, Text: reply(text), SentAt: now},
	)

	store.KV().Set(ctx, storage.KeyChatMessages, view.Messages)
	return view, nil
}

func (s *Service) ClearChat(ctx context.Context, store *session.Store) {
	store.KV().Remove(ctx, storage.KeyChatMessages)
}

func reply(text string) string {
	lower := strings.ToLower(text)
	for _, id := range topicOrder {
		for _, kw := range topicKeywords[id] {
			if !strings.Contains(lower, kw) {
				continue
			}
			if topic, ok := fixtures.HelpTopicByID(id); ok {
				return fmt.Sprintf(topicReply,
					strings.ToLower(topic.Title),
					strings.Join(topic.Articles, ", "),
				)
			}
		}
	}
	return genericReply
}
