package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/careerarchitect/career-architect/internal/profile"
)

//go:embed consultant_prompt.md
var consultantPrompt string

// Greeting shown when the consultant opens, mirroring the tone of the rest
// of the advisory persona.
const consultantGreeting = "Olá! Analisei seu perfil e gerei sua estratégia completa. " +
	"O que achou do plano? Posso ajudar a refinar o currículo ou treinar para entrevistas."

// Consultant is the follow-up coaching session. Its system instruction embeds
// a full serialization of the profile taken at creation time; later market
// enrichment does not refresh that context. Known staleness tradeoff.
type Consultant struct {
	chat       Chat
	opener     SessionOpener
	transcript Transcript
	logger     *zap.Logger
}

func NewConsultant(opener SessionOpener, logger *zap.Logger) *Consultant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consultant{opener: opener, logger: logger}
}

// Start opens the advisory session seeded with the profile as permanent
// context. No network turn is spent on the greeting; it is appended locally.
func (c *Consultant) Start(ctx context.Context, p *profile.UserProfile) (string, error) {
	if c.chat != nil {
		return "", errors.New("consultant session is already started")
	}
	if p == nil {
		return "", errors.New("a profile is required to start the consultant")
	}

	serialized, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing profile context: %w", err)
	}

	instruction := fmt.Sprintf("%s\nDADOS DO USUÁRIO PARA CONTEXTO:\n%s", strings.TrimSpace(consultantPrompt), serialized)

	chat, err := c.opener.OpenChat(ctx, instruction)
	if err != nil {
		return "", fmt.Errorf("opening consultant session: %w", err)
	}

	c.chat = chat
	c.transcript.append(RoleModel, consultantGreeting)

	c.logger.Info("consultant started", zap.Int("context_bytes", len(serialized)))

	return consultantGreeting, nil
}

func (c *Consultant) Transcript() *Transcript {
	return &c.transcript
}

// Send mirrors the screening turn handling: optimistic append, independent
// failure per turn.
func (c *Consultant) Send(ctx context.Context, text string) (string, error) {
	if c.chat == nil {
		return "", errors.New("consultant session has not been started")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("message must not be empty")
	}

	c.transcript.append(RoleUser, text)

	reply, err := c.chat.Send(ctx, text)
	if err != nil {
		return "", fmt.Errorf("consultant turn: %w", err)
	}

	c.transcript.append(RoleModel, reply)

	return reply, nil
}
