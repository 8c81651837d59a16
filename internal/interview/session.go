// Package interview drives the two conversational phases of the workflow:
// the screening interview that collects raw career signal and the consultant
// session seeded with the synthesized profile.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"
)

//go:embed screening_prompt.md
var screeningPrompt string

// State of a screening session.
type State int

const (
	StateNotStarted State = iota
	StateActive
	StateCompleted
)

// ErrNotEnoughSignal rejects the "generate analysis" action while the
// transcript is still too short to synthesize anything useful.
var ErrNotEnoughSignal = errors.New("responda pelo menos as primeiras perguntas antes de gerar a análise")

var (
	errNotStarted     = errors.New("screening session has not been started")
	errAlreadyStarted = errors.New("screening session is already started")
)

// Chat is one open conversation with the model.
type Chat interface {
	Send(ctx context.Context, text string) (string, error)
}

// SessionOpener opens chat sessions with a fixed system instruction.
type SessionOpener interface {
	OpenChat(ctx context.Context, systemInstruction string) (Chat, error)
}

// Screening is the first conversational phase. Turns are appended to the
// transcript optimistically: the user entry is recorded before the network
// round trip and never retracted, even when the turn fails.
type Screening struct {
	state        State
	chat         Chat
	opener       SessionOpener
	transcript   Transcript
	minExchanges int
	logger       *zap.Logger
}

// NewScreening builds an unstarted screening session. minExchanges is the
// minimum transcript length required before Finish is accepted.
func NewScreening(opener SessionOpener, minExchanges int, logger *zap.Logger) *Screening {
	if logger == nil {
		logger = zap.NewNop()
	}
	if minExchanges <= 0 {
		minExchanges = 2
	}
	return &Screening{
		opener:       opener,
		minExchanges: minExchanges,
		logger:       logger,
	}
}

func (s *Screening) State() State {
	return s.state
}

func (s *Screening) Transcript() *Transcript {
	return &s.transcript
}

// Start opens the chat session and sends the synthetic kickoff turn. The
// model's reply becomes the first transcript entry; the kickoff itself is not
// recorded. The user's name is worked into the kickoff when already known.
func (s *Screening) Start(ctx context.Context, userName string) (string, error) {
	if s.state != StateNotStarted {
		return "", errAlreadyStarted
	}

	chat, err := s.opener.OpenChat(ctx, screeningPrompt)
	if err != nil {
		return "", fmt.Errorf("opening screening session: %w", err)
	}

	kickoff := "Olá. Pode iniciar a entrevista."
	if name := strings.TrimSpace(userName); name != "" {
		kickoff = fmt.Sprintf("Olá, meu nome é %s. Vamos começar a triagem rápida.", name)
	}

	reply, err := chat.Send(ctx, kickoff)
	if err != nil {
		return "", fmt.Errorf("screening kickoff: %w", err)
	}

	s.chat = chat
	s.state = StateActive
	s.transcript.append(RoleModel, reply)

	s.logger.Info("screening started", zap.Bool("named_kickoff", userName != ""))

	return reply, nil
}

// Send submits one user answer. The answer is appended before the network
// call resolves; on failure it stays recorded, the session remains active and
// retry is simply sending again.
func (s *Screening) Send(ctx context.Context, text string) (string, error) {
	if s.state != StateActive {
		return "", errNotStarted
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("message must not be empty")
	}

	s.transcript.append(RoleUser, text)

	reply, err := s.chat.Send(ctx, text)
	if err != nil {
		return "", fmt.Errorf("screening turn: %w", err)
	}

	s.transcript.append(RoleModel, reply)

	return reply, nil
}

// Finish completes the session in response to the explicit user action. The
// transition is gated only by the minimum-length guard; interview completion
// is never auto-detected.
func (s *Screening) Finish() error {
	if s.state != StateActive {
		return errNotStarted
	}

	if s.transcript.Len() < s.minExchanges {
		return ErrNotEnoughSignal
	}

	s.state = StateCompleted
	s.logger.Info("screening completed", zap.Int("transcript_len", s.transcript.Len()))

	return nil
}

// Reopen returns a completed session to the active state. Used when profile
// synthesis fails and the user must be sent back to the interview.
func (s *Screening) Reopen() {
	if s.state == StateCompleted {
		s.state = StateActive
	}
}
