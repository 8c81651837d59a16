package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeChatCreator struct {
	mu    sync.Mutex
	calls []chatCallRecord
	queue []fakeResponse
}

type chatCallRecord struct {
	model  string
	config *genai.GenerateContentConfig
	chat   *fakeChat
}

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeChat struct {
	mu        sync.Mutex
	responses []fakeResponse
	messages  []string
}

func (f *fakeChat) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, part := range parts {
		f.messages = append(f.messages, part.Text)
	}
	if len(f.responses) == 0 {
		return nil, errors.New("unexpected send")
	}
	res := f.responses[0]
	f.responses = f.responses[1:]
	return res.resp, res.err
}

func (f *fakeChatCreator) Create(_ context.Context, model string, config *genai.GenerateContentConfig, _ []*genai.Content) (chatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	chat := &fakeChat{responses: f.queue}
	f.queue = nil
	f.calls = append(f.calls, chatCallRecord{model: model, config: config, chat: chat})
	return chat, nil
}

type fakeModels struct {
	mu        sync.Mutex
	calls     []modelCallRecord
	responses []fakeResponse
}

type modelCallRecord struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, modelCallRecord{model: model, contents: contents, config: config})
	if len(f.responses) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.responses[0]
	f.responses = f.responses[1:]
	return res.resp, res.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func testClient(chats *fakeChatCreator, models *fakeModels) *Client {
	return &Client{
		chats:      chats,
		models:     models,
		model:      "gemini-2.5-flash",
		ttsModel:   "gemini-2.5-flash-preview-tts",
		maxRetries: 2,
		timeout:    time.Second,
		maxLogLen:  defaultMaxLogLength,
		logger:     zap.NewNop(),
		wait:       func(context.Context, time.Duration) error { return nil },
	}
}

func TestOpenChatCarriesSystemInstruction(t *testing.T) {
	chats := &fakeChatCreator{queue: []fakeResponse{{resp: textResponse("Olá! Vamos começar?")}}}
	c := testClient(chats, &fakeModels{})

	session, err := c.OpenChat(context.Background(), "Você é um consultor de carreira.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.ID() == "" {
		t.Fatal("expected session id to be set")
	}

	if len(chats.calls) != 1 {
		t.Fatalf("expected 1 create call, got %d", len(chats.calls))
	}

	call := chats.calls[0]
	if call.config == nil || call.config.SystemInstruction == nil {
		t.Fatal("expected system instruction to be set")
	}
	if got := call.config.SystemInstruction.Parts[0].Text; got != "Você é um consultor de carreira." {
		t.Fatalf("unexpected system instruction: %q", got)
	}

	reply, err := session.Send(context.Background(), "Olá. Pode iniciar a entrevista.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Olá! Vamos começar?" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(call.chat.messages) != 1 || call.chat.messages[0] != "Olá. Pode iniciar a entrevista." {
		t.Fatalf("unexpected chat messages: %+v", call.chat.messages)
	}
}

func TestSendRetriesOnTemporaryError(t *testing.T) {
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	chats := &fakeChatCreator{queue: []fakeResponse{
		{err: tempErr},
		{resp: textResponse("retry ok")},
	}}
	c := testClient(chats, &fakeModels{})

	var waits []time.Duration
	c.wait = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	session, err := c.OpenChat(context.Background(), "instrução")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reply, err := session.Send(context.Background(), "mensagem")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if reply != "retry ok" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	if len(waits) != 1 || waits[0] != time.Second {
		t.Fatalf("unexpected backoff waits: %v", waits)
	}
}

func TestSendStopsAfterRetriesExhausted(t *testing.T) {
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	chats := &fakeChatCreator{queue: []fakeResponse{{err: tempErr}, {err: tempErr}}}
	c := testClient(chats, &fakeModels{})

	session, err := c.OpenChat(context.Background(), "instrução")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = session.Send(context.Background(), "mensagem")
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %T", err)
	}
}

func TestSendDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	quotaErr := genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	}
	chats := &fakeChatCreator{queue: []fakeResponse{{err: quotaErr}, {resp: textResponse("should not be reached")}}}
	c := testClient(chats, &fakeModels{})

	session, err := c.OpenChat(context.Background(), "instrução")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = session.Send(context.Background(), "mensagem")
	if err == nil {
		t.Fatal("expected error when quota delay too long")
	}

	if len(chats.calls[0].chat.messages) != 1 {
		t.Fatalf("expected single attempt, got %d", len(chats.calls[0].chat.messages))
	}
}

func TestSendEmptyReplyIsTypedError(t *testing.T) {
	chats := &fakeChatCreator{queue: []fakeResponse{{resp: &genai.GenerateContentResponse{}}}}
	c := testClient(chats, &fakeModels{})

	session, err := c.OpenChat(context.Background(), "instrução")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = session.Send(context.Background(), "mensagem")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGenerateStructuredSetsSchema(t *testing.T) {
	models := &fakeModels{responses: []fakeResponse{{resp: textResponse(`{"ok": true}`)}}}
	c := testClient(&fakeChatCreator{}, models)

	schema := &genai.Schema{Type: genai.TypeObject}
	text, sources, err := c.GenerateStructured(context.Background(), "gere o perfil", schema, StructuredOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != `{"ok": true}` {
		t.Fatalf("unexpected text: %q", text)
	}
	if sources != nil {
		t.Fatalf("expected no sources, got %+v", sources)
	}

	call := models.calls[0]
	if call.config.ResponseMIMEType != "application/json" {
		t.Fatalf("expected json mime type, got %q", call.config.ResponseMIMEType)
	}
	if call.config.ResponseSchema != schema {
		t.Fatal("expected response schema to be forwarded")
	}
	if len(call.config.Tools) != 0 {
		t.Fatal("expected no tools without search")
	}
}

func TestGenerateStructuredWithSearchDropsSchema(t *testing.T) {
	resp := textResponse("relatório de mercado")
	resp.Candidates[0].GroundingMetadata = &genai.GroundingMetadata{
		GroundingChunks: []*genai.GroundingChunk{
			{Web: &genai.GroundingChunkWeb{URI: "https://example.com/salarios", Title: "Salários 2025"}},
			{Web: &genai.GroundingChunkWeb{URI: ""}},
		},
	}
	models := &fakeModels{responses: []fakeResponse{{resp: resp}}}
	c := testClient(&fakeChatCreator{}, models)

	text, sources, err := c.GenerateStructured(context.Background(), "pesquise o mercado", &genai.Schema{}, StructuredOptions{UseSearch: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "relatório de mercado" {
		t.Fatalf("unexpected text: %q", text)
	}

	call := models.calls[0]
	if call.config.ResponseSchema != nil {
		t.Fatal("schema must not be combined with the search tool")
	}
	if len(call.config.Tools) != 1 || call.config.Tools[0].GoogleSearch == nil {
		t.Fatal("expected google search tool to be enabled")
	}

	if len(sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(sources))
	}
	if sources[0].Title != "Salários 2025" || sources[0].URI != "https://example.com/salarios" {
		t.Fatalf("unexpected source: %+v", sources[0])
	}
}

func TestTranscribeSendsInlineAudio(t *testing.T) {
	models := &fakeModels{responses: []fakeResponse{{resp: textResponse("texto transcrito")}}}
	c := testClient(&fakeChatCreator{}, models)

	text, err := c.Transcribe(context.Background(), []byte{1, 2, 3}, "audio/wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "texto transcrito" {
		t.Fatalf("unexpected transcription: %q", text)
	}

	parts := models.calls[0].contents[0].Parts
	if parts[0].InlineData == nil || parts[0].InlineData.MIMEType != "audio/wav" {
		t.Fatalf("expected inline audio part, got %+v", parts[0])
	}
	if parts[1].Text == "" {
		t.Fatal("expected transcription instruction part")
	}
}

func TestSynthesizeReturnsPCM(t *testing.T) {
	pcm := []byte{0x00, 0x00, 0x00, 0x40}
	models := &fakeModels{responses: []fakeResponse{{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: "audio/L16;rate=24000", Data: pcm}},
			}},
		}},
	}}}}
	c := testClient(&fakeChatCreator{}, models)

	got, err := c.Synthesize(context.Background(), "resumo do plano")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(pcm) {
		t.Fatalf("unexpected pcm payload: %v", got)
	}

	call := models.calls[0]
	if call.model != "gemini-2.5-flash-preview-tts" {
		t.Fatalf("unexpected model: %q", call.model)
	}
	if call.config.SpeechConfig == nil || call.config.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName != "Kore" {
		t.Fatal("expected prebuilt voice config")
	}

	_, err = c.Synthesize(context.Background(), "   ")
	if err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestClassifyAuthVersusNetwork(t *testing.T) {
	authErr := classify(genai.APIError{Code: http.StatusUnauthorized, Status: "UNAUTHENTICATED"})
	var auth *AuthError
	if !errors.As(authErr, &auth) {
		t.Fatalf("expected AuthError, got %T", authErr)
	}

	netErr := classify(errors.New("connection reset"))
	var network *NetworkError
	if !errors.As(netErr, &network) {
		t.Fatalf("expected NetworkError, got %T", netErr)
	}
}
