package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	pkgerrors "github.com/atacadolink/atacadolink-backend/pkg/errors"
	"github.com/atacadolink/atacadolink-backend/pkg/inference"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
	"github.com/rs/zerolog"
)

type stubCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	history []inference.Message
	block   chan struct{}
	started chan struct{}
}

func (s *stubCompleter) Complete(ctx context.Context, system string, turns []inference.Message) (string, error) {
	s.mu.Lock()
	s.calls++
	s.history = append([]inference.Message(nil), turns...)
	block := s.block
	if s.started != nil && s.calls == 1 {
		close(s.started)
	}
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	return s.reply, s.err
}

func newTestSession(t *testing.T, client *stubCompleter) *Session {
	t.Helper()
	session, err := NewSession(SessionParams{
		Client: client,
		Logger: logger.New(logger.Options{ServiceName: "chat-test", Level: zerolog.Disabled}),
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return session
}

func TestSendAppendsUserAndAssistantTurns(t *testing.T) {
	t.Parallel()

	client := &stubCompleter{reply: "O pedido sai em até dois dias úteis."}
	session := newTestSession(t, client)

	turns, err := session.Send(context.Background(), "Qual o prazo de entrega?")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("turns = %d, want 2", len(turns))
	}
	if turns[0].Role != enums.ChatRoleUser || turns[1].Role != enums.ChatRoleAssistant {
		t.Errorf("roles = %s/%s", turns[0].Role, turns[1].Role)
	}
	if turns[1].Content != "O pedido sai em até dois dias úteis." {
		t.Errorf("assistant content = %q", turns[1].Content)
	}
	if session.State() != enums.ChatStateIdle {
		t.Errorf("state = %s, want idle", session.State())
	}
	// The user's turn is part of the history sent to the model.
	if len(client.history) != 1 || client.history[0].Role != "user" {
		t.Errorf("history = %+v", client.history)
	}
}

func TestSendInferenceFailureDegradesToFallback(t *testing.T) {
	t.Parallel()

	client := &stubCompleter{err: errors.New("upstream timeout")}
	session := newTestSession(t, client)

	turns, err := session.Send(context.Background(), "Preciso de ajuda.")
	if err != nil {
		t.Fatalf("Send must absorb inference failure, got %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("turns = %d, want user + fallback", len(turns))
	}
	if turns[1].Content != FallbackReply {
		t.Errorf("assistant content = %q, want fallback", turns[1].Content)
	}
	if session.State() != enums.ChatStateIdle {
		t.Errorf("state = %s, want idle after degradation", session.State())
	}
}

func TestSendEmptyReplyDegradesToFallback(t *testing.T) {
	t.Parallel()

	client := &stubCompleter{reply: "   "}
	session := newTestSession(t, client)

	turns, err := session.Send(context.Background(), "Oi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if turns[1].Content != FallbackReply {
		t.Errorf("assistant content = %q, want fallback", turns[1].Content)
	}
}

func TestSendRejectsWhileAwaitingResponse(t *testing.T) {
	t.Parallel()

	client := &stubCompleter{reply: "ok", block: make(chan struct{}), started: make(chan struct{})}
	session := newTestSession(t, client)

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		if _, err := session.Send(context.Background(), "primeira"); err != nil {
			t.Errorf("first Send: %v", err)
		}
	}()

	<-client.started
	if session.State() != enums.ChatStateAwaitingResponse {
		t.Fatalf("state = %s, want awaiting_response", session.State())
	}

	_, err := session.Send(context.Background(), "segunda")
	if err == nil {
		t.Fatal("expected rejection while awaiting response")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Errorf("code = %s, want %s", pkgerrors.As(err).Code(), pkgerrors.CodeValidation)
	}

	close(client.block)
	<-firstDone

	// The rejected message left no trace in the transcript.
	transcript := session.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("transcript = %d turns, want 2", len(transcript))
	}
	if client.calls != 1 {
		t.Errorf("inference calls = %d, want 1", client.calls)
	}
}

func TestSendRejectsEmptyContent(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, &stubCompleter{reply: "ok"})
	_, err := session.Send(context.Background(), "   ")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Errorf("code = %s, want %s", pkgerrors.As(err).Code(), pkgerrors.CodeValidation)
	}
	if len(session.Transcript()) != 0 {
		t.Error("transcript must stay empty")
	}
}

func TestTranscriptIsAppendOnlyCopy(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, &stubCompleter{reply: "ok"})
	if _, err := session.Send(context.Background(), "primeira"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	copyOne := session.Transcript()
	copyOne[0].Content = "mutated"

	copyTwo := session.Transcript()
	if copyTwo[0].Content != "primeira" {
		t.Error("transcript leaked internal state")
	}
}
