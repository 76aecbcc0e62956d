package main

import (
	"context"
	"fmt"
	"os"

	"clinicdesk-backend/internal/api"
	"clinicdesk-backend/internal/api/routes"
	v1 "clinicdesk-backend/internal/api/routes/v1"
	"clinicdesk-backend/internal/clinic/agents"
	"clinicdesk-backend/internal/config"
	"clinicdesk-backend/internal/libraries"
	llmHandlers "clinicdesk-backend/internal/llm_handlers"
	"clinicdesk-backend/internal/logging"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "clinicdesk",
		Short:         "Clinic front-desk API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// loadSettings reads .env (if any) and the environment and configures logging.
func loadSettings() (*config.Settings, error) {
	envErr := godotenv.Load()

	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(settings.LogLevel, settings.LogFormat)
	if envErr != nil {
		log.Debug().Msg(".env file not found, using process environment")
	}
	return settings, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			if err := settings.Validate(); err != nil {
				return err
			}
			return runServer(cmd.Context(), settings)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			if settings.DatabaseURL == "" {
				return fmt.Errorf("DB_URL must be set")
			}

			db, err := config.ConnectDB(settings.DatabaseURL, settings.DBLogLevel)
			if err != nil {
				return err
			}
			defer config.CloseDB(db)

			return config.MigrateAllModels(db)
		},
	}
}

func runServer(ctx context.Context, settings *config.Settings) error {
	db, err := config.ConnectDB(settings.DatabaseURL, settings.DBLogLevel)
	if err != nil {
		return err
	}
	defer config.CloseDB(db)

	if settings.AutoMigrate {
		if err := config.MigrateAllModels(db); err != nil {
			return err
		}
	}

	provider := llmHandlers.Provider(settings.LLMProvider)
	// without credentials the vertex provider runs offline
	withVertex := provider == llmHandlers.ProviderVertexAnthropic && settings.GCPCredentials != ""
	gcp, err := libraries.NewClients(ctx, libraries.GCPConfig{
		Credentials:  settings.GCPCredentials,
		ProjectID:    settings.GCPProjectID,
		VertexRegion: settings.VertexLocation,
		WithStorage:  settings.ArchiveBucket != "",
		WithVertex:   withVertex,
	})
	if err != nil {
		return fmt.Errorf("failed to init gcp clients: %w", err)
	}
	defer gcp.Close()

	llmClient, err := llmHandlers.New(ctx, llmConfig(settings, gcp))
	if err != nil {
		return fmt.Errorf("failed to init %s client: %w", provider, err)
	}
	if llmClient == nil {
		log.Warn().Str("provider", string(provider)).Msg("no assistant credentials configured, running offline")
	}

	deps := v1.Deps{
		DB:        db,
		JWTSecret: settings.JWTSecret,
		TokenTTL:  settings.TokenTTL,
		Assistant: agents.NewAgent(llmClient, settings.AssistantTimeout),
	}
	if gcp != nil && gcp.GCS != nil {
		deps.Archiver = libraries.NewTranscriptArchiver(gcp.GCS, settings.ArchiveBucket)
		log.Info().Str("bucket", settings.ArchiveBucket).Msg("transcript archive enabled")
	}

	app := api.NewServer(api.ServerConfig{AllowOrigins: settings.CORSAllowOrigins})
	routes.Register(app, deps)

	return api.StartServer(ctx, app, settings.Port)
}

func llmConfig(settings *config.Settings, gcp *libraries.Clients) llmHandlers.Config {
	cfg := llmHandlers.Config{Provider: llmHandlers.Provider(settings.LLMProvider)}
	switch cfg.Provider {
	case llmHandlers.ProviderLangChainOpenAI:
		cfg.Model = settings.OpenAIModel
		cfg.APIKey = settings.OpenAIAPIKey
	case llmHandlers.ProviderLangChainGroq:
		cfg.Model = settings.GroqModelName
		cfg.APIKey = settings.GroqAPIKey
		cfg.BaseURL = settings.GroqBaseURL
	case llmHandlers.ProviderVertexAnthropic:
		cfg.Model = settings.ClaudeVertexModel
		cfg.Location = settings.VertexLocation
		if gcp != nil && gcp.Vertex != nil {
			cfg.Predictor = gcp.Vertex
			cfg.ProjectID = gcp.ProjectID
		}
	default:
		cfg.Model = settings.GeminiModelID
		cfg.APIKey = settings.GeminiAPIKey
	}
	return cfg
}
