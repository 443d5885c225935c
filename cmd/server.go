package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getplenum/plenum-backend/api"
	"github.com/getplenum/plenum-backend/infra"
	"github.com/getplenum/plenum-backend/repositories"
	"github.com/getplenum/plenum-backend/usecases"
	"github.com/getplenum/plenum-backend/utils"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
)

const (
	appName    = "plenum-backend"
	apiVersion = "v0.1.0"
)

func RunServer() error {
	// This is where we read the environment variables and set up the configuration for the application.
	apiConfig := api.Configuration{
		Env:                 utils.GetEnv("ENV", "development"),
		AppName:             appName,
		AppVersion:          apiVersion,
		Port:                utils.GetRequiredEnv[string]("PORT"),
		AppUrl:              utils.GetEnv("APP_URL", ""),
		RequestLoggingLevel: utils.GetEnv("REQUEST_LOGGING_LEVEL", "all"),
		DefaultTimeout:      time.Duration(utils.GetEnv("DEFAULT_TIMEOUT_SECOND", 5)) * time.Second,
		DeliberationTimeout: time.Duration(utils.GetEnv("DELIBERATION_TIMEOUT_SECOND", 300)) * time.Second,
		MaxAttachmentsSize:  int64(utils.GetEnv("MAX_ATTACHMENTS_SIZE_MB", 30)) * 1024 * 1024,
	}
	pgConfig := infra.PgConfig{
		ConnectionString:   utils.GetEnv("PG_CONNECTION_STRING", ""),
		Database:           "plenum",
		Hostname:           utils.GetEnv("PG_HOSTNAME", ""),
		Password:           utils.GetEnv("PG_PASSWORD", ""),
		Port:               utils.GetEnv("PG_PORT", "5432"),
		User:               utils.GetEnv("PG_USER", ""),
		MaxPoolConnections: utils.GetEnv("PG_MAX_POOL_SIZE", infra.DEFAULT_MAX_CONNECTIONS),
		SslMode:            utils.GetEnv("PG_SSL_MODE", "prefer"),
	}
	llmConfig := infra.LlmProviderConfiguration{
		OpenAIURL:          utils.GetEnv("OPENAI_BASE_URL", ""),
		OpenAIKey:          utils.GetEnv("OPENAI_API_KEY", ""),
		AIStudioKey:        utils.GetEnv("AISTUDIO_API_KEY", ""),
		PerplexityKey:      utils.GetEnv("PERPLEXITY_API_KEY", ""),
		GeminiKey:          utils.GetEnv("GEMINI_API_KEY", ""),
		RateLimitPerMinute: utils.GetEnv("LLM_RATE_LIMIT_PER_MINUTE", 0),
		RetryAttempts:      uint(utils.GetEnv("LLM_RETRY_ATTEMPTS", 3)),
	}
	deliberationConfig := infra.DeliberationConfiguration{
		JustifierProvider:       utils.GetEnv("JUSTIFIER_PROVIDER", "openai"),
		JustifierModel:          utils.GetEnv("JUSTIFIER_MODEL", "gpt-4o"),
		MaxConcurrentModelCalls: utils.GetEnv("MAX_CONCURRENT_MODEL_CALLS", 0),
		PromptFolder:            utils.GetEnv("PROMPT_FOLDER", "prompts"),
	}
	serverConfig := struct {
		loggingFormat string
		sentryDsn     string
		enableTracing bool
		traceExporter string
		gcpProjectId  string
	}{
		loggingFormat: utils.GetEnv("LOGGING_FORMAT", "text"),
		sentryDsn:     utils.GetEnv("SENTRY_DSN", ""),
		enableTracing: utils.GetEnv("ENABLE_TRACING", false),
		traceExporter: utils.GetEnv("TRACE_EXPORTER", "otlp"),
		gcpProjectId:  utils.GetEnv("GOOGLE_CLOUD_PROJECT", ""),
	}

	logger := utils.NewLogger(serverConfig.loggingFormat)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	infra.SetupSentry(serverConfig.sentryDsn, apiConfig.Env, apiVersion)
	defer sentry.Flush(3 * time.Second)

	tracingConfig := infra.TelemetryConfiguration{
		Enabled:         serverConfig.enableTracing,
		ApplicationName: apiConfig.AppName,
		Exporter:        serverConfig.traceExporter,
		ProjectID:       serverConfig.gcpProjectId,
	}
	telemetryRessources, err := infra.InitTelemetry(tracingConfig, apiVersion)
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
	}

	// The database is optional: without it the service still deliberates but
	// does not keep a record of past deliberations.
	repos, err := buildRepositories(ctx, pgConfig, llmConfig)
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}

	uc := usecases.NewUsecases(repos,
		usecases.WithDeliberationConfig(deliberationConfig),
	)

	router := api.InitRouterMiddlewares(ctx, apiConfig, telemetryRessources)
	server := api.NewServer(router, apiConfig, uc)

	notify, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.InfoContext(ctx, "starting server", slog.String("port", apiConfig.Port))
		err := server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			utils.LogAndReportSentryError(ctx, errors.Wrap(err, "Error while serving the app"))
		}
		logger.InfoContext(ctx, "server returned")
	}()

	<-notify.Done()
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogAndReportSentryError(
			ctx,
			errors.Wrap(err, "Error while shutting down the server"),
		)
		return err
	}

	return nil
}

func buildRepositories(
	ctx context.Context,
	pgConfig infra.PgConfig,
	llmConfig infra.LlmProviderConfiguration,
) (repositories.Repositories, error) {
	if pgConfig.ConnectionString == "" && pgConfig.Hostname == "" {
		return repositories.NewRepositories(nil, llmConfig), nil
	}

	pool, err := infra.NewPostgresConnectionPool(ctx, pgConfig.GetConnectionString(),
		pgConfig.MaxPoolConnections)
	if err != nil {
		return repositories.Repositories{}, errors.Wrap(err, "could not create connection pool")
	}
	return repositories.NewRepositories(pool, llmConfig), nil
}
