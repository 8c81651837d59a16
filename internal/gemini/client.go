// Package gemini wraps the Google GenAI client behind the three call shapes
// the application needs: stateful chat sessions, structured generation with a
// declared response schema (optionally grounded by web search), and the audio
// round trips (transcription and speech synthesis).
package gemini

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/careerarchitect/career-architect/internal/logger"
	"github.com/careerarchitect/career-architect/internal/utils"
)

const (
	defaultModel    = "gemini-2.5-flash"
	defaultTTSModel = "gemini-2.5-flash-preview-tts"
	defaultVoice    = "Kore"
	defaultTimeout  = 90 * time.Second

	defaultMaxLogLength = 200

	transcribeInstruction = "Transcreva o áudio fornecido fielmente para o português do Brasil. " +
		"Retorne apenas o texto transcrito, sem formatação ou comentários adicionais."
)

// Config carries the client settings resolved once per instance.
type Config struct {
	APIKey       string
	Model        string
	TTSModel     string
	MaxRetries   int
	Timeout      time.Duration
	MaxLogLength int
}

// chatSession is the live chat surface of the SDK, narrowed for tests.
type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// chatCreator creates chat sessions; *genai.Client's chat service is adapted
// to it so tests can fake the whole conversational surface.
type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

// modelCaller is the single-shot generation surface of the SDK.
type modelCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client authenticates once and exposes the primitive operations. Every call
// is independent network I/O bounded by the configured timeout.
type Client struct {
	chats      chatCreator
	models     modelCaller
	model      string
	ttsModel   string
	maxRetries int
	timeout    time.Duration
	maxLogLen  int
	logger     *zap.Logger

	// wait pauses between retry attempts; swapped out in tests.
	wait func(ctx context.Context, d time.Duration) error
}

type genaiChats struct {
	client *genai.Client
}

func (g *genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	return g.client.Chats.Create(ctx, model, config, history)
}

// New creates a client configured for the Gemini API backend.
func New(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, &AuthError{Reason: "api key is required"}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, classify(err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	ttsModel := strings.TrimSpace(cfg.TTSModel)
	if ttsModel == "" {
		ttsModel = defaultTTSModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &Client{
		chats:      &genaiChats{client: client},
		models:     client.Models,
		model:      model,
		ttsModel:   ttsModel,
		maxRetries: maxRetries,
		timeout:    timeout,
		maxLogLen:  maxLogLen,
		logger:     logger.WithFields(log, zap.String(logger.FieldModel, model)),
		wait:       utils.WaitFor,
	}, nil
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

// ChatSession is a stateful conversation opened with a system instruction.
// Turns are serialized by the caller; the session itself holds no locks.
type ChatSession struct {
	id     string
	chat   chatSession
	client *Client
	logger *zap.Logger
}

// OpenChat opens a chat session carrying the provided system instruction for
// its whole lifetime.
func (c *Client) OpenChat(ctx context.Context, systemInstruction string) (*ChatSession, error) {
	systemInstruction = strings.TrimSpace(systemInstruction)
	if systemInstruction == "" {
		return nil, errEmptyInstruction
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}

	chat, err := c.chats.Create(ctx, c.model, config, nil)
	if err != nil {
		return nil, classify(err)
	}

	id := uuid.NewString()
	return &ChatSession{
		id:     id,
		chat:   chat,
		client: c,
		logger: logger.WithSession(c.logger, c.model, id),
	}, nil
}

func (s *ChatSession) ID() string {
	return s.id
}

// Send submits one free-text turn and returns the model's reply text.
func (s *ChatSession) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errEmptyPrompt
	}

	s.logger.Debug("chat turn request",
		zap.String("preview", logger.TruncateForLog(text, s.client.maxLogLen)),
	)

	var resp *genai.GenerateContentResponse
	err := s.client.withRetry(ctx, func(callCtx context.Context) error {
		var sendErr error
		resp, sendErr = s.chat.SendMessage(callCtx, genai.Part{Text: text})
		return sendErr
	})
	if err != nil {
		return "", err
	}

	reply := collectText(resp)
	if reply == "" {
		return "", ErrEmptyResponse
	}

	s.logger.Debug("chat turn response",
		zap.String("preview", logger.TruncateForLog(reply, s.client.maxLogLen)),
	)

	return reply, nil
}

// StructuredOptions tunes a structured generation call.
type StructuredOptions struct {
	// UseSearch enables the web-search grounding tool. The API rejects a
	// response schema combined with search, so grounded calls return prose
	// that downstream extraction turns back into JSON.
	UseSearch bool
}

// Source is a grounding citation attached to a search-grounded response.
type Source struct {
	Title string
	URI   string
}

// GenerateStructured sends one request whose response must conform to the
// declared schema, or, when search is enabled, one grounded request whose
// response carries citation sources.
func (c *Client) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, opts StructuredOptions) (string, []Source, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", nil, errEmptyPrompt
	}

	config := &genai.GenerateContentConfig{}
	if opts.UseSearch {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	} else if schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = schema
	}

	c.logger.Debug("structured generation request",
		zap.Bool("use_search", opts.UseSearch),
		zap.String("preview", logger.TruncateForLog(prompt, c.maxLogLen)),
	)

	var resp *genai.GenerateContentResponse
	err := c.withRetry(ctx, func(callCtx context.Context) error {
		var genErr error
		resp, genErr = c.models.GenerateContent(callCtx, c.model, genai.Text(prompt), config)
		return genErr
	})
	if err != nil {
		return "", nil, err
	}

	text := collectText(resp)
	if text == "" {
		return "", nil, ErrEmptyResponse
	}

	c.logger.Debug("structured generation response",
		zap.Int("response_length", len(text)),
		zap.String("preview", logger.TruncateForLog(text, c.maxLogLen)),
	)

	return text, collectSources(resp), nil
}

// Transcribe sends the recorded audio blob, unchanged and tagged with its
// mime type, and returns the transcription text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", errEmptyPrompt
	}

	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: audio}},
			{Text: transcribeInstruction},
		},
	}}

	var resp *genai.GenerateContentResponse
	err := c.withRetry(ctx, func(callCtx context.Context) error {
		var genErr error
		resp, genErr = c.models.GenerateContent(callCtx, c.model, contents, nil)
		return genErr
	})
	if err != nil {
		return "", err
	}

	text := collectText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}

// Synthesize requests speech audio for the given text. The returned bytes are
// raw signed 16-bit little-endian PCM, mono, 24000 Hz.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errEmptyPrompt
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: defaultVoice},
			},
		},
	}

	var resp *genai.GenerateContentResponse
	err := c.withRetry(ctx, func(callCtx context.Context) error {
		var genErr error
		resp, genErr = c.models.GenerateContent(callCtx, c.ttsModel, genai.Text(text), config)
		return genErr
	})
	if err != nil {
		return nil, err
	}

	pcm := collectAudio(resp)
	if len(pcm) == 0 {
		return nil, ErrEmptyResponse
	}

	return pcm, nil
}

// withRetry runs the call under the configured timeout, retrying transient
// failures with a linear backoff. Non-transient failures are classified and
// returned immediately.
func (c *Client) withRetry(ctx context.Context, call func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := call(callCtx)
		cancel()

		if err == nil {
			return nil
		}

		lastErr = classify(err)

		if !isTemporary(err) || attempt == c.maxRetries {
			return lastErr
		}

		c.logger.Debug("retrying after transient error",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if waitErr := c.wait(ctx, time.Duration(attempt)*time.Second); waitErr != nil {
			return lastErr
		}
	}

	return lastErr
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

func collectAudio(resp *genai.GenerateContentResponse) []byte {
	if resp == nil {
		return nil
	}

	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.InlineData == nil {
				continue
			}
			if len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}

	return nil
}

func collectSources(resp *genai.GenerateContentResponse) []Source {
	if resp == nil {
		return nil
	}

	var sources []Source
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			title := chunk.Web.Title
			if title == "" {
				title = chunk.Web.URI
			}
			sources = append(sources, Source{Title: title, URI: chunk.Web.URI})
		}
	}

	return sources
}
