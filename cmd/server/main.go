package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/sujikathir/gdev/internal/analyzer"
	"github.com/sujikathir/gdev/internal/api/rest"
	"github.com/sujikathir/gdev/internal/autofix"
	"github.com/sujikathir/gdev/internal/config"
	"github.com/sujikathir/gdev/internal/fixer"
	"github.com/sujikathir/gdev/internal/github"
	"github.com/sujikathir/gdev/internal/ingest"
	"github.com/sujikathir/gdev/internal/llm"
	"github.com/sujikathir/gdev/internal/notify"
	"github.com/sujikathir/gdev/internal/toolkit"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	cfg.WarnMissing(logger)

	ctx := context.Background()

	// GitHub access: live sources with a token, fixtures without
	ghClient := github.NewClient(ctx, cfg.GitHubToken, logger)
	var (
		issueSource github.IssueSource       = github.FixtureIssueSource{}
		prSource    github.PullRequestSource = github.FixturePullRequestSource{}
	)
	if cfg.GitHubToken != "" {
		issueSource = &github.LiveIssueSource{Client: ghClient}
		prSource = &github.LivePullRequestSource{Client: ghClient}
	}
	fetcher := github.NewFetcher(issueSource, prSource, cfg.FetchTimeout, logger)
	ingester := ingest.NewIngester(cfg.GitHubToken, cfg.FetchTimeout, logger)

	// Text generation and tool execution
	completer := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIMaxTokens)
	issueAnalyzer := analyzer.NewAnalyzer(completer, cfg.OpenAITemperature, logger)
	fixGenerator := fixer.NewGenerator(completer, fixer.ExecRunner{}, 0.1, logger)

	var tools toolkit.Toolkit = toolkit.Disabled{}
	if cfg.OpenAIAPIKey != "" && cfg.GitHubToken != "" {
		tools = toolkit.NewGitHubToolkit(openai.NewClient(cfg.OpenAIAPIKey), cfg.OpenAIModel, ghClient, logger)
	}

	// Background auto-fix pipeline
	store := autofix.NewStore(cfg.AutoFixTaskRetention)
	notifier := notify.NewSlackNotifier(cfg.SlackWebhookURL, logger)
	runner := autofix.NewRunner(autofix.RunnerConfig{
		Issues:        fetcher,
		Snapshots:     ingester,
		Analyzer:      issueAnalyzer,
		Fixer:         fixGenerator,
		Cloner:        ghClient,
		Branches:      ghClient,
		Toolkit:       tools,
		Notifier:      notifier,
		Store:         store,
		MaxConcurrent: int64(cfg.AutoFixMaxConcurrent),
		Username:      cfg.GitHubUsername,
		Token:         cfg.GitHubToken,
		Logger:        logger,
	})

	restHandler := rest.NewHandler(rest.HandlerConfig{
		Issues:            fetcher,
		PullRequests:      fetcher,
		Snapshots:         ingester,
		Analyzer:          issueAnalyzer,
		AutoFix:           runner,
		Toolkit:           tools,
		DefaultOwner:      cfg.DemoOwner,
		DefaultRepo:       cfg.DemoRepo,
		DemoIssue:         cfg.DemoIssue,
		DefaultIssueLimit: cfg.DefaultIssueLimit,
		MaxIssueLimit:     cfg.MaxIssueLimit,
		GitHubConnected:   cfg.GitHubToken != "",
		Logger:            logger,
	})

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	restHandler.RegisterRoutes(router)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("starting REST API server", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start REST server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	server.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
