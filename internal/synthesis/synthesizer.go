// Package synthesis turns a finished screening transcript into a structured
// career profile through one schema-constrained generation call.
package synthesis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/careerarchitect/career-architect/internal/gemini"
	"github.com/careerarchitect/career-architect/internal/jsonextract"
	"github.com/careerarchitect/career-architect/internal/logger"
	"github.com/careerarchitect/career-architect/internal/profile"
)

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

type structuredGenerator interface {
	GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, opts gemini.StructuredOptions) (string, []gemini.Source, error)
}

// Synthesizer performs the one-shot transcript-to-profile transformation.
type Synthesizer struct {
	generator structuredGenerator
	logger    *zap.Logger
	maxLogLen int
}

func New(generator structuredGenerator, log *zap.Logger, maxLogLength int) *Synthesizer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Synthesizer{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Synthesize sends the flattened transcript with the generation rules and the
// strict response schema, then pipes the answer through extraction,
// sanitization and the personal-data merge. On any failure no partial profile
// is returned; the caller reverts to the screening stage.
//
// The returned profile always carries the placeholder market section: market
// data is sourced from the enrichment path, never from this call.
func (s *Synthesizer) Synthesize(ctx context.Context, transcript string, personal *profile.PersonalData) (*profile.UserProfile, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, errors.New("transcript must not be empty")
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{TRANSCRIPT}}", transcript)

	s.logger.Debug("profile synthesis request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("transcript_preview", logger.TruncateForLog(transcript, s.maxLogLen)),
	)

	raw, _, err := s.generator.GenerateStructured(ctx, prompt, profileSchema(), gemini.StructuredOptions{})
	if err != nil {
		return nil, fmt.Errorf("profile generation: %w", err)
	}

	s.logger.Debug("profile synthesis response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	doc, err := jsonextract.Object(raw)
	if err != nil {
		return nil, fmt.Errorf("profile extraction: %w", err)
	}

	validateAdvisory(doc, s.logger)

	p := profile.SanitizeProfile(doc)
	profile.ApplyPersonalData(p, personal)
	p.MarketInfo = profile.EmptyMarketAnalytics()

	return p, nil
}
