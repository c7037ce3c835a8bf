// AngelaMos | 2026
// dto.go

package support

import (
	"time"

	"github.com/carterperez-dev/esimphony/internal/fixtures"
)

type ContactRequest struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

type ContactResult struct {
	Reference string `json:"reference"`
	Subject   string `json:"subject"`
	Email     string `json:"email"`
}

type ChatRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type Author string

const (
	AuthorUser  Author = "user"
	AuthorAgent Author = "agent"
)

type ChatMessage struct {
	ID     string    `json:"id"`
	Author Author    `json:"author"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}

type ChatView struct {
	Messages []ChatMessage `json:"messages"`
}

type TopicsView struct {
	Topics []fixtures.HelpTopic `json:"topics"`
}
