package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubChat struct {
	replies []string
	errs    []error
	sent    []string
}

func (s *stubChat) Send(_ context.Context, text string) (string, error) {
	s.sent = append(s.sent, text)
	idx := len(s.sent) - 1
	if idx < len(s.errs) && s.errs[idx] != nil {
		return "", s.errs[idx]
	}
	if idx < len(s.replies) {
		return s.replies[idx], nil
	}
	return "ok", nil
}

type stubOpener struct {
	chat        *stubChat
	err         error
	instruction string
}

func (s *stubOpener) OpenChat(_ context.Context, systemInstruction string) (Chat, error) {
	s.instruction = systemInstruction
	if s.err != nil {
		return nil, s.err
	}
	return s.chat, nil
}

func TestScreeningStartRecordsModelReplyOnly(t *testing.T) {
	chat := &stubChat{replies: []string{"Olá! Me conte sobre seu objetivo."}}
	opener := &stubOpener{chat: chat}
	s := NewScreening(opener, 2, zap.NewNop())

	reply, err := s.Start(context.Background(), "Ana")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.State() != StateActive {
		t.Fatalf("expected active state, got %v", s.State())
	}

	if reply != "Olá! Me conte sobre seu objetivo." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	if !strings.Contains(chat.sent[0], "Ana") {
		t.Fatalf("expected kickoff to carry the user name, got %q", chat.sent[0])
	}

	msgs := s.Transcript().Messages()
	if len(msgs) != 1 || msgs[0].Role != RoleModel {
		t.Fatalf("expected single model entry, got %+v", msgs)
	}

	if !strings.Contains(opener.instruction, "Consultor de Carreira") {
		t.Fatal("expected screening system prompt to be used")
	}
}

func TestScreeningKickoffWithoutName(t *testing.T) {
	chat := &stubChat{replies: []string{"Olá!"}}
	s := NewScreening(&stubOpener{chat: chat}, 2, zap.NewNop())

	if _, err := s.Start(context.Background(), "  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if chat.sent[0] != "Olá. Pode iniciar a entrevista." {
		t.Fatalf("unexpected kickoff: %q", chat.sent[0])
	}
}

func TestScreeningTranscriptIsStrictlyAdditive(t *testing.T) {
	chat := &stubChat{replies: []string{"pergunta 0", "resposta 1", "resposta 2", "resposta 3"}}
	s := NewScreening(&stubOpener{chat: chat}, 2, zap.NewNop())

	if _, err := s.Start(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	turns := []string{"sou dev backend", "quero liderança", "sei Go e SQL"}
	for _, turn := range turns {
		if _, err := s.Send(context.Background(), turn); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	msgs := s.Transcript().Messages()
	if len(msgs) != 1+2*len(turns) {
		t.Fatalf("expected %d entries, got %d", 1+2*len(turns), len(msgs))
	}

	// Entries after the opening question must alternate user/model with no
	// prior entry mutated.
	for i, turn := range turns {
		user := msgs[1+2*i]
		model := msgs[2+2*i]
		if user.Role != RoleUser || user.Text != turn {
			t.Fatalf("unexpected user entry at %d: %+v", i, user)
		}
		if model.Role != RoleModel {
			t.Fatalf("unexpected model entry at %d: %+v", i, model)
		}
	}
}

func TestScreeningTurnFailureKeepsUserEntryAndStaysActive(t *testing.T) {
	chat := &stubChat{
		replies: []string{"pergunta", "", "agora sim"},
		errs:    []error{nil, errors.New("network down"), nil},
	}
	s := NewScreening(&stubOpener{chat: chat}, 2, zap.NewNop())

	if _, err := s.Start(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := s.Send(context.Background(), "minha resposta")
	if err == nil {
		t.Fatal("expected turn error")
	}

	if s.State() != StateActive {
		t.Fatal("session must stay active after a failed turn")
	}

	msgs := s.Transcript().Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected optimistic user entry to stay, got %d entries", len(msgs))
	}
	if msgs[1].Role != RoleUser || msgs[1].Text != "minha resposta" {
		t.Fatalf("unexpected last entry: %+v", msgs[1])
	}

	// Retry is just sending again.
	if _, err := s.Send(context.Background(), "minha resposta"); err != nil {
		t.Fatalf("unexpected retry error: %v", err)
	}
}

func TestScreeningFinishGuard(t *testing.T) {
	chat := &stubChat{replies: []string{"pergunta", "resposta"}}
	s := NewScreening(&stubOpener{chat: chat}, 3, zap.NewNop())

	if _, err := s.Start(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only the opening question so far: below the minimum of 3.
	if err := s.Finish(); !errors.Is(err, ErrNotEnoughSignal) {
		t.Fatalf("expected ErrNotEnoughSignal, got %v", err)
	}
	if s.State() != StateActive {
		t.Fatal("rejected finish must not change state")
	}

	if _, err := s.Send(context.Background(), "resposta detalhada"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Transcript now holds 3 entries: at the minimum, finish proceeds.
	if err := s.Finish(); err != nil {
		t.Fatalf("unexpected finish error: %v", err)
	}
	if s.State() != StateCompleted {
		t.Fatal("expected completed state")
	}

	s.Reopen()
	if s.State() != StateActive {
		t.Fatal("expected reopen to return to active state")
	}
}

func TestScreeningStartFailurePropagates(t *testing.T) {
	s := NewScreening(&stubOpener{err: errors.New("no credentials")}, 2, zap.NewNop())

	if _, err := s.Start(context.Background(), ""); err == nil {
		t.Fatal("expected start error")
	}
	if s.State() != StateNotStarted {
		t.Fatal("failed start must leave the session unstarted")
	}
}
