package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/joeshaw/envdecode"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"nutriagent"
	"nutriagent/coordinator/ollama"
	"nutriagent/ledger"
	"nutriagent/ledger/storage"
	"nutriagent/logging"
	"nutriagent/nutritionix"
	"nutriagent/slack"
	"nutriagent/textgen"
	"nutriagent/tools"
)

func main() {
	logging.Setup()

	ctx := context.Background()

	var modelConfig nutriagent.ModelConfig
	if err := envdecode.Decode(&modelConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var agentConfig nutriagent.AgentConfig
	if err := envdecode.Decode(&agentConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var nxConfig nutriagent.NutritionixConfig
	if err := envdecode.Decode(&nxConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	store := storage.NewFile(agentConfig.LedgerDataDir)
	svc := ledger.NewService(store)

	resolver := nutritionix.NewClient(nxConfig.AppID, nxConfig.AppKey, nxConfig.BaseURL, http.DefaultClient)
	summarizer := textgen.NewOllama(agentConfig.BaseOllamaEndpoint, modelConfig.ModelID, http.DefaultClient)

	registry, err := tools.NewRegistry(resolver, svc, summarizer)
	if err != nil {
		slog.Error("SETUP: Failed to create tool registry", "error", err)
		return
	}
	slog.Info("SETUP: Ledger store initialized", "dir", agentConfig.LedgerDataDir)

	logger, cleanup, err := newCoordinationLogger(modelConfig.ModelID)
	if err != nil {
		slog.Error("SETUP: Failed to create coordination logger", "error", err)
		return
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("SETUP: Failed to flush coordination log", "error", err)
		}
	}()

	task := argOr(1, "I'm Bob, 30 years old, 80 kg, 180 cm, male. Today I ate 2 eggs, a banana, and a bowl of oatmeal. How am I doing against my daily targets?")

	prompt, err := ollama.NewPrompt(task, registry)
	if err != nil {
		slog.Error("SETUP: Failed to apply system prompt", "error", err)
		return
	}

	llm, err := ollama.NewClient(ollama.ClientOpts{
		BaseEndpoint: agentConfig.BaseOllamaEndpoint,
		ModelID:      modelConfig.ModelID,
		Prompt:       prompt,
		HTTPClient:   http.DefaultClient,
	})
	if err != nil {
		slog.Error("SETUP: Failed to create LLM client", "error", err)
		return
	}

	tracerProvider, meterProvider, otelShutdown, err := nutriagent.InitOtel(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		return
	}
	defer func() {
		if err := otelShutdown(ctx); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	tracer := tracerProvider.Tracer(nutriagent.TracerNameOllama)
	meter := meterProvider.Meter(nutriagent.TracerNameOllama)

	ctx, span := tracer.Start(ctx, nutriagent.TracerNameOllama, trace.WithAttributes(
		attribute.String("model.id", modelConfig.ModelID),
		attribute.Int("model.max_tokens", int(modelConfig.MaxTokens)),
		attribute.Float64("model.temperature", float64(modelConfig.Temperature)),
		attribute.Float64("model.top_p", float64(modelConfig.TopP)),
	))
	defer span.End()

	output, err := ollama.NewInstrumentedCoordinator(llm, registry, svc, agentConfig.MaxIterations, logger, tracer, meter).Run(ctx, task)
	if err != nil {
		slog.Error("FAILURE: Error handling task", "error", err)
		return
	}

	// Post the final report to Slack. Without a configured webhook, stand up a
	// local echo server so the run still shows the outgoing payload.
	webhookURL := os.Getenv("SLACK_WEBHOOK_URL")
	if webhookURL == "" {
		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body := new(bytes.Buffer)
			body.ReadFrom(r.Body) // nolint: errcheck
			slog.Info("Received request",
				"method", r.Method,
				"path", r.URL.Path,
				"header", r.Header,
				"body", body.String(),
			)
			w.WriteHeader(http.StatusOK)
		}))
		defer testServer.Close()
		webhookURL = testServer.URL
	}

	slackClient := slack.NewClient(webhookURL, http.DefaultClient)
	if err := slackClient.PostMessage(ctx, "#nutrition", output); err != nil {
		slog.Error("Failed to post result to Slack", "error", err)
	}
}

func argOr(i int, def string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return def
}

func newCoordinationLogger(modelID string) (nutriagent.CoordinationLogger, func() error, error) {
	logFilePath := nutriagent.NewCoordinationLogFilePath(modelID)
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := nutriagent.NewFileCoordinationLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}
