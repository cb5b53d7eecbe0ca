package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	pkgerrors "github.com/atacadolink/atacadolink-backend/pkg/errors"
	"github.com/atacadolink/atacadolink-backend/pkg/inference"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
	"github.com/google/uuid"
)

// FallbackReply is appended as the assistant turn when inference fails, so
// the conversation always advances even with the model unavailable.
const FallbackReply = "Não consegui gerar uma resposta agora. Tente novamente em instantes ou fale com nossa central de atendimento."

const defaultSystemPrompt = "Você é o assistente de suporte do AtacadoLink. Ajude representantes de compras com pedidos, catálogo e entregas. Responda em português, de forma curta e objetiva."

// Turn is one transcript entry. The transcript is append-only: turns are
// never edited or removed while the session lives.
type Turn struct {
	ID        uuid.UUID      `json:"id"`
	Role      enums.ChatRole `json:"role"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
}

type completer interface {
	Complete(ctx context.Context, system string, turns []inference.Message) (string, error)
}

// Session is a per-profile support conversation. It allows at most one
// in-flight inference call: a second message while one is awaiting a
// response is rejected, not queued.
type Session struct {
	mu         sync.Mutex
	state      enums.ChatState
	transcript []Turn

	client       completer
	logg         *logger.Logger
	now          func() time.Time
	systemPrompt string
}

// SessionParams carries the chat session dependencies.
type SessionParams struct {
	Client       completer
	Logger       *logger.Logger
	Now          func() time.Time
	SystemPrompt string
}

// NewSession validates dependencies and builds an idle session.
func NewSession(params SessionParams) (*Session, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("inference client is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	prompt := strings.TrimSpace(params.SystemPrompt)
	if prompt == "" {
		prompt = defaultSystemPrompt
	}
	return &Session{
		state:        enums.ChatStateIdle,
		client:       params.Client,
		logg:         params.Logger,
		now:          now,
		systemPrompt: prompt,
	}, nil
}

// Send appends the user turn, runs inference, and appends the assistant turn.
// Inference failure is absorbed into the fallback reply; the only errors Send
// returns are rejections that leave the transcript untouched.
func (s *Session) Send(ctx context.Context, content string) ([]Turn, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message content is required")
	}

	s.mu.Lock()
	if s.state == enums.ChatStateAwaitingResponse {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a response is already in flight")
	}
	s.state = enums.ChatStateAwaitingResponse
	s.transcript = append(s.transcript, Turn{
		ID:        uuid.New(),
		Role:      enums.ChatRoleUser,
		Content:   content,
		CreatedAt: s.now().UTC(),
	})
	history := s.inferenceHistory()
	s.mu.Unlock()

	reply, err := s.client.Complete(ctx, s.systemPrompt, history)
	if err != nil || strings.TrimSpace(reply) == "" {
		if err == nil {
			err = pkgerrors.New(pkgerrors.CodeInference, "empty completion")
		}
		s.logg.Error(ctx, "support inference failed, using fallback reply", err)
		reply = FallbackReply
	}

	s.mu.Lock()
	s.transcript = append(s.transcript, Turn{
		ID:        uuid.New(),
		Role:      enums.ChatRoleAssistant,
		Content:   reply,
		CreatedAt: s.now().UTC(),
	})
	s.state = enums.ChatStateIdle
	turns := append([]Turn(nil), s.transcript...)
	s.mu.Unlock()

	return turns, nil
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.transcript...)
}

// State returns the current conversation state.
func (s *Session) State() enums.ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// inferenceHistory maps the transcript into completion messages. Callers
// must hold the mutex.
func (s *Session) inferenceHistory() []inference.Message {
	history := make([]inference.Message, 0, len(s.transcript))
	for _, turn := range s.transcript {
		history = append(history, inference.Message{
			Role:    turn.Role.String(),
			Content: turn.Content,
		})
	}
	return history
}
