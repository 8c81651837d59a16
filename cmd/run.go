package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/careerarchitect/career-architect/internal/audio"
	"github.com/careerarchitect/career-architect/internal/dashboard"
	"github.com/careerarchitect/career-architect/internal/gemini"
	"github.com/careerarchitect/career-architect/internal/interview"
	"github.com/careerarchitect/career-architect/internal/logger"
	"github.com/careerarchitect/career-architect/internal/market"
	"github.com/careerarchitect/career-architect/internal/profile"
	"github.com/careerarchitect/career-architect/internal/secrets"
	"github.com/careerarchitect/career-architect/internal/synthesis"
)

const (
	PromptStrategy      = "Estratégia de carreira"
	PromptSkills        = "Skills & gaps"
	PromptPDI           = "Plano de desenvolvimento (PDI)"
	PromptMarket        = "Dados de mercado"
	PromptResume        = "Currículo"
	PromptConsultant    = "Conversar com o consultor"
	PromptDeepResearch  = "Análise profunda de mercado"
	PromptSearchJobs    = "Buscar vagas"
	PromptJobsByCompany = "Vagas por empresa"
	PromptDumpJobs      = "Salvar vagas em arquivo"
	PromptPlayPDI       = "Ouvir resumo do PDI"
	PromptExit          = "Sair"

	cmdGenerate = "/gerar"
	cmdAudio    = "/audio"
	cmdQuit     = "/sair"
	cmdBack     = "/voltar"
)

var errExit = errors.New("exit requested")

var (
	coachStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))
)

var dashboardPrompt = promptui.Select{
	Label: "O que deseja fazer?",
	Items: []string{
		PromptConsultant,
		PromptStrategy,
		PromptSkills,
		PromptPDI,
		PromptMarket,
		PromptResume,
		PromptDeepResearch,
		PromptSearchJobs,
		PromptJobsByCompany,
		PromptDumpJobs,
		PromptPlayPDI,
		PromptExit,
	},
	Size: 12,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive career coaching session",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("audio", "a", false, "enable microphone answers and spoken PDI summary")
	runCmd.Flags().String("name", "", "your name, used to open the interview")

	viper.BindPFlag("audio.enabled", runCmd.Flags().Lookup("audio"))
}

// geminiOpener adapts the transport client to the interview session seam.
type geminiOpener struct {
	client *gemini.Client
}

func (o *geminiOpener) OpenChat(ctx context.Context, systemInstruction string) (interview.Chat, error) {
	return o.client.OpenChat(ctx, systemInstruction)
}

// appState holds everything the interactive loops share. The loops run
// strictly serially, so no locking is needed here.
type appState struct {
	config *Config
	logger *zap.Logger

	client      *gemini.Client
	screening   *interview.Screening
	consultant  *interview.Consultant
	synthesizer *synthesis.Synthesizer
	researcher  *market.Researcher
	player      *audio.Player
	recorder    *audio.Recorder

	reader   *bufio.Reader
	personal *profile.PersonalData
	profile  *profile.UserProfile
	jobs     *market.Jobs
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the career-architect", zap.String("version", version))

	apiKey, err := resolveAPIKey(config)
	if err != nil {
		logger.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE or the 'gemini.api-key-file' key in the configuration file"),
		)
	}

	client, err := gemini.New(ctx, gemini.Config{
		APIKey:       apiKey,
		Model:        config.Gemini.Model,
		TTSModel:     config.Gemini.TTSModel,
		MaxRetries:   config.Gemini.MaxRetries,
		MaxLogLength: config.Gemini.MaxLogLength,
		Timeout:      time.Duration(config.Gemini.TimeoutSeconds) * time.Second,
	}, logger)
	if err != nil {
		logger.Fatal("creating the gemini client", zap.Error(err))
	}

	opener := &geminiOpener{client: client}

	state := &appState{
		config:      config,
		logger:      logger,
		client:      client,
		screening:   interview.NewScreening(opener, config.Interview.MinExchanges, logger),
		consultant:  interview.NewConsultant(opener, logger),
		synthesizer: synthesis.New(client, logger, config.Gemini.MaxLogLength),
		researcher:  market.New(client, logger, config.Gemini.MaxLogLength),
		player:      audio.NewPlayer(),
		recorder:    audio.NewRecorder(),
		reader:      bufio.NewReader(os.Stdin),
	}

	fmt.Println(coachStyle.Render("Career Architect AI"))
	fmt.Println(hintStyle.Render("Uma entrevista rápida, depois sua estratégia completa de carreira."))

	if config.Interview.CollectPersonalDetails {
		state.personal = collectPersonalDetails(state.reader)
	}

	userName, _ := cmd.Flags().GetString("name")
	if userName == "" && state.personal != nil {
		userName = state.personal.FullName
	}

	if err := screeningLoop(ctx, state, userName); err != nil {
		if errors.Is(err, errExit) {
			logger.Info("exiting", zap.String("reason", "user quit during screening"))
			return
		}
		logger.Fatal("screening failed", zap.Error(err))
	}

	if err := dashboardLoop(ctx, state); err != nil && !errors.Is(err, errExit) {
		logger.Fatal("exiting", zap.Error(err))
	}
}

func resolveAPIKey(config *Config) (string, error) {
	return secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  config.Gemini.APIKeyFile,
		Value: config.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
	})
}

// collectPersonalDetails asks for the ground-truth identity fields used to
// overwrite the generated resume. Leaving the name empty skips the step.
func collectPersonalDetails(reader *bufio.Reader) *profile.PersonalData {
	fmt.Println(coachStyle.Render("\nSeus dados para o currículo"))
	fmt.Println(hintStyle.Render("Pressione ENTER no nome para pular esta etapa."))

	for {
		pd := &profile.PersonalData{
			FullName:  readField(reader, "Nome completo"),
			Email:     readField(reader, "E-mail"),
			Phone:     readField(reader, "Telefone"),
			Address:   readField(reader, "Cidade/Estado"),
			Linkedin:  readField(reader, "LinkedIn (opcional)"),
			Github:    readField(reader, "GitHub (opcional)"),
			Portfolio: readField(reader, "Portfólio (opcional)"),
		}

		if pd.FullName == "" {
			fmt.Println(hintStyle.Render("Etapa pulada; o currículo usará os dados da entrevista."))
			return nil
		}

		if err := pd.Validate(); err != nil {
			fmt.Println(warnStyle.Render("Dados inválidos: " + err.Error() + ". Vamos tentar de novo."))
			continue
		}

		return pd
	}
}

func readField(reader *bufio.Reader, label string) string {
	fmt.Print(coachStyle.Render(label+": "))
	value, _ := reader.ReadString('\n')
	return strings.TrimSpace(value)
}

// screeningLoop runs the interview until the user asks for the analysis and
// synthesis succeeds. A failed synthesis reopens the interview.
func screeningLoop(ctx context.Context, state *appState, userName string) error {
	reply, err := state.screening.Start(ctx, userName)
	if err != nil {
		return fmt.Errorf("starting the screening: %w", err)
	}

	printCoach(reply)
	fmt.Println(hintStyle.Render(fmt.Sprintf("Comandos: %s gera a análise, %s responde por voz, %s encerra.", cmdGenerate, cmdAudio, cmdQuit)))

	var pending string
	for {
		fmt.Print("> ")
		line, err := state.reader.ReadString('\n')
		if err != nil {
			return errExit
		}
		line = strings.TrimSpace(line)

		switch line {
		case cmdQuit:
			return errExit
		case cmdGenerate:
			pending = ""
			if err := generateAnalysis(ctx, state); err != nil {
				if errors.Is(err, interview.ErrNotEnoughSignal) {
					fmt.Println(warnStyle.Render(err.Error()))
					continue
				}
				fmt.Println(warnStyle.Render("Não consegui gerar sua análise agora: " + err.Error()))
				fmt.Println(hintStyle.Render("Vamos continuar a entrevista; tente " + cmdGenerate + " novamente em instantes."))
				continue
			}
			return nil
		case cmdAudio:
			text, ok := recordAnswer(ctx, state)
			if !ok {
				continue
			}
			pending = text
			fmt.Println(hintStyle.Render("Você (voz): " + text))
			fmt.Println(hintStyle.Render("ENTER envia a transcrição; digite outra resposta para substituí-la."))
		default:
			text, ok := nextTurn(pending, line)
			pending = ""
			if !ok {
				continue
			}
			sendScreeningTurn(ctx, state, text)
		}
	}
}

// nextTurn resolves what one prompt iteration sends. A staged transcription
// waits for review: an empty line confirms it, any typed text replaces it.
// Nothing is sent on an empty line when nothing is staged.
func nextTurn(pending, line string) (string, bool) {
	if line != "" {
		return line, true
	}
	if pending != "" {
		return pending, true
	}
	return "", false
}

func sendScreeningTurn(ctx context.Context, state *appState, text string) {
	reply, err := state.screening.Send(ctx, text)
	if err != nil {
		state.logger.Warn("screening turn failed", zap.String(logger.FieldStage, "screening"), zap.Error(err))
		fmt.Println(warnStyle.Render("Falha de conexão nesta resposta. Sua mensagem foi registrada; tente enviar a próxima."))
		return
	}
	printCoach(reply)
}

// generateAnalysis closes the interview and runs profile synthesis. On any
// synthesis failure the screening reopens so no progress is lost.
func generateAnalysis(ctx context.Context, state *appState) error {
	if err := state.screening.Finish(); err != nil {
		return err
	}

	fmt.Println(hintStyle.Render("Gerando sua análise completa..."))

	p, err := state.synthesizer.Synthesize(ctx, state.screening.Transcript().Flatten(), state.personal)
	if err != nil {
		state.screening.Reopen()
		return err
	}

	state.profile = p
	state.logger.Info("profile synthesized",
		zap.String(logger.FieldStage, "synthesis"),
		zap.Int("transcript_len", state.screening.Transcript().Len()),
	)

	return nil
}

// recordAnswer captures one spoken answer and transcribes it.
func recordAnswer(ctx context.Context, state *appState) (string, bool) {
	if !state.config.Audio.Enabled {
		fmt.Println(hintStyle.Render("Áudio desabilitado. Rode com --audio ou habilite audio.enabled na configuração."))
		return "", false
	}

	if err := state.recorder.Start(); err != nil {
		state.logger.Warn("recording did not start", zap.Error(err))
		fmt.Println(warnStyle.Render("Não consegui acessar o microfone: " + err.Error()))
		return "", false
	}

	fmt.Println(hintStyle.Render("Gravando... pressione ENTER para parar."))
	state.reader.ReadString('\n')

	blob, mimeType, err := state.recorder.Stop()
	if err != nil {
		state.logger.Warn("recording failed", zap.Error(err))
		fmt.Println(warnStyle.Render("A gravação falhou: " + err.Error()))
		return "", false
	}

	text, err := state.client.Transcribe(ctx, blob, mimeType)
	if err != nil {
		state.logger.Warn("transcription failed", zap.Error(err))
		fmt.Println(warnStyle.Render("Não consegui transcrever o áudio. Tente novamente ou digite a resposta."))
		return "", false
	}

	return text, true
}

func dashboardLoop(ctx context.Context, state *appState) error {
	fmt.Println(coachStyle.Render("\nSua análise está pronta."))

	for {
		_, action, err := dashboardPrompt.Run()
		if err != nil {
			return fmt.Errorf("dashboard prompt: %w", err)
		}

		if err := handleDashboardAction(ctx, state, action); err != nil {
			if errors.Is(err, errExit) {
				state.logger.Info("exiting", zap.String("reason", "user quit from dashboard"))
				return errExit
			}
			state.logger.Warn("dashboard action failed",
				zap.String(logger.FieldStage, "dashboard"),
				zap.String("action", action),
				zap.Error(err),
			)
			fmt.Println(warnStyle.Render(err.Error()))
		}
	}
}

func handleDashboardAction(ctx context.Context, state *appState, action string) error {
	switch action {
	case PromptStrategy:
		fmt.Println(dashboard.Strategy(&state.profile.Strategy))
	case PromptSkills:
		fmt.Println(dashboard.SkillsAndGaps(&state.profile.SkillsAndGaps))
	case PromptPDI:
		fmt.Println(dashboard.PDI(&state.profile.PDI))
	case PromptMarket:
		fmt.Println(dashboard.Market(&state.profile.MarketInfo))
	case PromptResume:
		fmt.Println(dashboard.Resume(&state.profile.Resume))
	case PromptConsultant:
		return consultantLoop(ctx, state)
	case PromptDeepResearch:
		return deepResearch(ctx, state)
	case PromptSearchJobs:
		return searchJobs(ctx, state)
	case PromptJobsByCompany:
		if state.jobs == nil {
			return errors.New("busque vagas primeiro")
		}
		pretty, _ := json.MarshalIndent(state.jobs.ReportByCompany(), "", "  ")
		fmt.Println(string(pretty))
	case PromptDumpJobs:
		if state.jobs == nil {
			return errors.New("busque vagas primeiro")
		}
		filename, err := state.jobs.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("salvando vagas em arquivo: %w", err)
		}
		state.logger.Info("jobs dumped to file", zap.String("filename", filename))
		fmt.Println(hintStyle.Render("Vagas salvas em " + filename))
	case PromptPlayPDI:
		return playPDISummary(ctx, state)
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}

	return nil
}

// consultantLoop runs the advisory chat. The session opens lazily on the
// first visit and keeps its context for the rest of the run.
func consultantLoop(ctx context.Context, state *appState) error {
	if state.consultant.Transcript().Len() == 0 {
		greeting, err := state.consultant.Start(ctx, state.profile)
		if err != nil {
			return fmt.Errorf("abrindo o consultor: %w", err)
		}
		printCoach(greeting)
	} else {
		fmt.Println(hintStyle.Render("De volta ao consultor."))
	}

	fmt.Println(hintStyle.Render(cmdBack + " retorna ao painel."))

	for {
		fmt.Print("> ")
		line, err := state.reader.ReadString('\n')
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)

		switch line {
		case "":
			continue
		case cmdBack:
			return nil
		default:
			reply, err := state.consultant.Send(ctx, line)
			if err != nil {
				state.logger.Warn("consultant turn failed", zap.Error(err))
				fmt.Println(warnStyle.Render("Falha de conexão nesta mensagem. Tente novamente."))
				continue
			}
			printCoach(reply)
		}
	}
}

// deepResearch refreshes the market section. The previous data survives any
// failure; only a fully successful run replaces it.
func deepResearch(ctx context.Context, state *appState) error {
	role := state.profile.Resume.Title
	if role == "" && len(state.profile.Strategy.SuggestedAreas) > 0 {
		role = state.profile.Strategy.SuggestedAreas[0].Title
	}

	location := state.profile.Resume.Location
	if location == "" {
		location = state.config.Interview.Country
	}

	fmt.Println(hintStyle.Render("Pesquisando o mercado com o Google Search..."))

	analytics, err := state.researcher.Deep(ctx, role, location)
	if err != nil {
		return fmt.Errorf("a pesquisa de mercado falhou, os dados anteriores foram mantidos: %w", err)
	}

	state.profile.MarketInfo = *analytics
	fmt.Println(dashboard.Market(&state.profile.MarketInfo))

	return nil
}

func searchJobs(ctx context.Context, state *appState) error {
	role := state.profile.Resume.Title
	if role == "" && len(state.profile.Strategy.SuggestedAreas) > 0 {
		role = state.profile.Strategy.SuggestedAreas[0].Title
	}

	location := state.profile.Resume.Location
	if location == "" {
		location = state.config.Interview.Country
	}

	fmt.Println(hintStyle.Render("Buscando vagas abertas..."))

	jobs := state.researcher.SearchJobs(ctx, role, location)

	if removed := jobs.FilterByMinFit(state.config.Jobs.MinimumFitScore); removed > 0 {
		state.logger.Info("jobs filtered by minimum fit score",
			zap.Int("removed", removed),
			zap.Int("minimum_fit_score", state.config.Jobs.MinimumFitScore),
		)
	}
	jobs.SortByFit()

	state.jobs = &jobs
	fmt.Println(dashboard.Jobs(state.jobs))

	return nil
}

// playPDISummary speaks the executive summary of the development plan. A
// request while audio is already playing is ignored.
func playPDISummary(ctx context.Context, state *appState) error {
	if !state.config.Audio.Enabled {
		return errors.New("áudio desabilitado; rode com --audio ou habilite audio.enabled na configuração")
	}

	text := strings.TrimSpace(state.profile.PDI.ExecutiveSummary)
	if text == "" {
		return errors.New("o plano não tem resumo executivo para ler")
	}

	if state.player.Playing() {
		return nil
	}

	fmt.Println(hintStyle.Render("Gerando áudio..."))

	pcm, err := state.client.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("gerando o áudio do resumo: %w", err)
	}

	return state.player.PlayPCM(pcm, audio.PlaybackSampleRate, 1)
}

func printCoach(text string) {
	fmt.Println(coachStyle.Render("\nCoach:"), text)
}
