// Package market enriches a synthesized profile with live market data and job
// listings. Research runs in two passes: a search-grounded prose report with
// citation sources, then a schema-constrained extraction of that report into
// the typed market section.
package market

import (
	"context"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/careerarchitect/career-architect/internal/gemini"
	"github.com/careerarchitect/career-architect/internal/jsonextract"
	"github.com/careerarchitect/career-architect/internal/logger"
	"github.com/careerarchitect/career-architect/internal/profile"
)

//go:embed report_prompt.md
var reportPromptTemplate string

//go:embed jobs_prompt.md
var jobsPromptTemplate string

const (
	defaultLocation = "Brasil"
	defaultRole     = "Tecnologia"

	defaultMaxLogLength = 200

	extractPrompt = "Com base no relatório de mercado abaixo, extraia os dados estruturados no formato JSON.\n\nRELATÓRIO:\n%s"
)

type structuredGenerator interface {
	GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, opts gemini.StructuredOptions) (string, []gemini.Source, error)
}

// Researcher runs market and job enrichment on demand. Results never feed back
// into the research prompts; each run starts from the role and location alone.
type Researcher struct {
	generator structuredGenerator
	logger    *zap.Logger
	maxLogLen int
}

func New(generator structuredGenerator, log *zap.Logger, maxLogLength int) *Researcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Researcher{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Deep researches the market for the given role and location and returns a
// fully sanitized market section with its grounding sources attached. On any
// failure nothing is returned; the caller keeps whatever market data it
// already holds.
func (r *Researcher) Deep(ctx context.Context, role, location string) (*profile.MarketAnalytics, error) {
	role, location = normalizeTarget(role, location)

	prompt := strings.ReplaceAll(reportPromptTemplate, "{{ROLE}}", role)
	prompt = strings.ReplaceAll(prompt, "{{LOCATION}}", location)

	report, sources, err := r.generator.GenerateStructured(ctx, prompt, nil, gemini.StructuredOptions{UseSearch: true})
	if err != nil {
		return nil, fmt.Errorf("market report: %w", err)
	}

	r.logger.Debug("market report generated",
		zap.String("role", role),
		zap.String("location", location),
		zap.Int("sources", len(sources)),
		zap.String("preview", logger.TruncateForLog(report, r.maxLogLen)),
	)

	raw, _, err := r.generator.GenerateStructured(ctx, fmt.Sprintf(extractPrompt, report), marketSchema(), gemini.StructuredOptions{})
	if err != nil {
		return nil, fmt.Errorf("market extraction: %w", err)
	}

	doc, err := jsonextract.Object(raw)
	if err != nil {
		return nil, fmt.Errorf("market extraction: %w", err)
	}

	analytics := profile.SanitizeMarket(doc)
	analytics.Sources = toGroundingSources(sources)

	return analytics, nil
}

// SearchJobs looks for open listings matching the role and location. The job
// search is best effort: any transport or parse failure is logged and yields
// an empty collection, never an error.
func (r *Researcher) SearchJobs(ctx context.Context, role, location string) Jobs {
	role, location = normalizeTarget(role, location)

	prompt := strings.ReplaceAll(jobsPromptTemplate, "{{ROLE}}", role)
	prompt = strings.ReplaceAll(prompt, "{{LOCATION}}", location)

	raw, _, err := r.generator.GenerateStructured(ctx, prompt, nil, gemini.StructuredOptions{UseSearch: true})
	if err != nil {
		r.logger.Warn("job search failed", zap.Error(err))
		return Jobs{Items: []profile.JobOpportunity{}}
	}

	doc, err := jsonextract.Object(raw)
	if err != nil {
		r.logger.Warn("job search returned no parsable listing",
			zap.Error(err),
			zap.String("preview", logger.TruncateForLog(raw, r.maxLogLen)),
		)
		return Jobs{Items: []profile.JobOpportunity{}}
	}

	jobs := Jobs{Items: profile.SanitizeJobs(doc)}

	r.logger.Debug("job search finished",
		zap.String("role", role),
		zap.String("location", location),
		zap.Int("listings", jobs.Len()),
	)

	return jobs
}

func normalizeTarget(role, location string) (string, string) {
	role = strings.TrimSpace(role)
	if role == "" {
		role = defaultRole
	}
	location = strings.TrimSpace(location)
	if location == "" {
		location = defaultLocation
	}
	return role, location
}

func toGroundingSources(sources []gemini.Source) []profile.GroundingSource {
	if len(sources) == 0 {
		return nil
	}
	out := make([]profile.GroundingSource, 0, len(sources))
	for _, s := range sources {
		out = append(out, profile.GroundingSource{Title: s.Title, URI: s.URI})
	}
	return out
}

// marketSchema declares the shape of the market extraction response.
func marketSchema() *genai.Schema {
	salaryBand := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"min": {Type: genai.TypeInteger},
			"max": {Type: genai.TypeInteger},
			"avg": {Type: genai.TypeInteger},
		},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"overview": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"summary":     {Type: genai.TypeString},
					"demandLevel": {Type: genai.TypeString, Enum: []string{"Alta", "Média", "Baixa"}},
					"trends":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				},
			},
			"salary": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"junior":           salaryBand,
					"pleno":            salaryBand,
					"senior":           salaryBand,
					"growthProjection": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeNumber}},
				},
			},
			"topCompanies": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":      {Type: genai.TypeString},
						"vacancies": {Type: genai.TypeInteger},
						"url":       {Type: genai.TypeString},
					},
				},
			},
			"skillsDemand": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":       {Type: genai.TypeString},
						"percentage": {Type: genai.TypeNumber},
						"userHas":    {Type: genai.TypeBoolean},
					},
				},
			},
			"insights": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"growthPerspective": {Type: genai.TypeString},
					"roiCertifications": {Type: genai.TypeString},
					"challenges":        {Type: genai.TypeString},
				},
			},
		},
	}
}
