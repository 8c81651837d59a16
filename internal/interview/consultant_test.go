package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/careerarchitect/career-architect/internal/profile"
)

func TestConsultantStartSeedsProfileContext(t *testing.T) {
	chat := &stubChat{}
	opener := &stubOpener{chat: chat}
	c := NewConsultant(opener, zap.NewNop())

	p := profile.SanitizeProfile(map[string]any{
		"resume": map[string]any{"fullName": "Ana Souza", "title": "Engenheira de Software"},
	})

	greeting, err := c.Start(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if greeting == "" {
		t.Fatal("expected a greeting")
	}

	if !strings.Contains(opener.instruction, "DADOS DO USUÁRIO PARA CONTEXTO") {
		t.Fatal("expected the profile context marker in the system instruction")
	}
	if !strings.Contains(opener.instruction, "Ana Souza") {
		t.Fatal("expected the serialized profile in the system instruction")
	}

	// The greeting is local: no network turn was spent on it.
	if len(chat.sent) != 0 {
		t.Fatalf("expected no chat turns on start, got %d", len(chat.sent))
	}

	msgs := c.Transcript().Messages()
	if len(msgs) != 1 || msgs[0].Role != RoleModel {
		t.Fatalf("expected seeded greeting entry, got %+v", msgs)
	}
}

func TestConsultantRequiresProfile(t *testing.T) {
	c := NewConsultant(&stubOpener{chat: &stubChat{}}, zap.NewNop())

	if _, err := c.Start(context.Background(), nil); err == nil {
		t.Fatal("expected error without profile")
	}
}

func TestConsultantTurnFailureKeepsUserEntry(t *testing.T) {
	chat := &stubChat{errs: []error{errors.New("offline")}}
	c := NewConsultant(&stubOpener{chat: chat}, zap.NewNop())

	if _, err := c.Start(context.Background(), profile.SanitizeProfile(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.Send(context.Background(), "como melhorar meu LinkedIn?"); err == nil {
		t.Fatal("expected turn error")
	}

	msgs := c.Transcript().Messages()
	if len(msgs) != 2 || msgs[1].Role != RoleUser {
		t.Fatalf("expected optimistic user entry to stay, got %+v", msgs)
	}
}
