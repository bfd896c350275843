package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	orchestration "github.com/manan-dev/jarvis-core/core"
	"github.com/manan-dev/jarvis-core/core/actions"
	"github.com/manan-dev/jarvis-core/core/actions/launch"
	"github.com/manan-dev/jarvis-core/core/actions/placement"
	"github.com/manan-dev/jarvis-core/core/audio/miniaudio"
	"github.com/manan-dev/jarvis-core/core/broadcast"
	"github.com/manan-dev/jarvis-core/core/llms"
	"github.com/manan-dev/jarvis-core/core/llms/ollama"
	"github.com/manan-dev/jarvis-core/core/llms/openai"
	"github.com/manan-dev/jarvis-core/core/memory"
	sttdeepgram "github.com/manan-dev/jarvis-core/core/speechtotext/deepgram"
	ttsdeepgram "github.com/manan-dev/jarvis-core/core/texttospeech/deepgram"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	addr := cli.StringP("addr", "a", ":8765", "Websocket listen address")
	baseDir := cli.StringP("data", "d", ".", "Base directory for memory and logs")
	mappingPath := cli.StringP("mapping", "m", "", "Application mapping YAML file")
	wakeWord := cli.StringP("wake", "w", "jarvis", "Wake word")
	listenTimeout := cli.DurationP("listen-timeout", "t", 8*time.Second, "Voice capture timeout per listen attempt")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)
	if os.Getenv("DEEPGRAM_API_KEY") == "" {
		log.Error("DEEPGRAM_API_KEY not set")
		os.Exit(1)
	}

	store := memory.NewStore(*baseDir)

	audioClient, err := miniaudio.NewClient()
	if err != nil {
		log.Error("Failed to init audio", "err", err)
		os.Exit(1)
	}
	defer audioClient.Close()

	ttsClient, err := ttsdeepgram.NewTextToSpeechClient(ttsdeepgram.VoiceOrion)
	if err != nil {
		log.Error("Failed to init text-to-speech", "err", err)
		os.Exit(1)
	}

	listener := orchestration.NewVoiceListener(
		audioClient,
		sttdeepgram.NewTranscriptionClient(),
		orchestration.WithListenTimeout(*listenTimeout),
	)
	speaker := orchestration.NewVoiceSpeaker(audioClient, ttsClient)

	responder := buildResponderChain()

	mapping := launch.DefaultMapping()
	if *mappingPath != "" {
		if mapping, err = launch.LoadMapping(*mappingPath); err != nil {
			log.Warn("Falling back to default application mapping", "err", err)
		}
	}

	system := launch.NewSystem()
	launcher := launch.NewLauncher(system,
		launch.WithMapping(mapping),
		launch.WithPlacer(placement.NewPoller(placement.NewDesktop())),
	)
	dispatcher := actions.NewDispatcher(launcher, system)

	orchestrator := orchestration.NewOrchestrator(
		orchestration.WithListener(listener),
		orchestration.WithSpeaker(speaker),
		orchestration.WithResponder(responder),
		orchestration.WithActionDispatcher(dispatcher),
		orchestration.WithMemoryStore(store),
		orchestration.WithWakeWord(*wakeWord),
	)

	hub := broadcast.NewHub(orchestrator, orchestrator, broadcast.HistoryLoaderFunc(func() (any, error) {
		return store.LoadHistory()
	}))
	// The hub needs the orchestrator for state snapshots and the orchestrator
	// needs the hub for notifications; the broadcaster is bound last.
	orchestration.WithBroadcaster(hub)(orchestrator)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	server := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		log.Info("Websocket server listening", "addr", *addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Websocket server failed", "err", err)
		}
	}()

	log.Info("Boot up - successful", "wake", *wakeWord)

	if err := orchestrator.Run(ctx); err != nil {
		log.Error("Orchestrator stopped", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)

	log.Info("Shut down")
}

// buildResponderChain assembles the provider fallback order from whichever
// credentials are present: OpenRouter first, then OpenAI, then local Ollama.
func buildResponderChain() *llms.Chain {
	var providers []llms.Provider

	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		providers = append(providers, openai.NewClient(key,
			openai.WithBaseURL("https://openrouter.ai/api/v1"),
			openai.WithModel("deepseek/deepseek-chat-v3-0324:free"),
		))
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		providers = append(providers, openai.NewClient(key))
	}
	providers = append(providers, ollama.NewClient())

	return llms.NewChain(providers...)
}
