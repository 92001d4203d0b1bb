package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"chatbot-evaluation/backend/ai"
	"chatbot-evaluation/backend/internal/models"
	"chatbot-evaluation/backend/internal/prompts"
	"chatbot-evaluation/backend/internal/randomization"
	"chatbot-evaluation/backend/internal/repository"
	"chatbot-evaluation/backend/internal/service"
	"chatbot-evaluation/backend/pkg/config"
	"chatbot-evaluation/backend/pkg/health"
	"chatbot-evaluation/backend/pkg/logger"
	"chatbot-evaluation/backend/pkg/secrets"

	"gorm.io/gorm"
)

// healthCheckPeriod is the interval between background health checks
const healthCheckPeriod = 30 * time.Second

// Container holds all the dependencies for the application
type Container struct {
	DB      *gorm.DB
	Logger  *logger.Logger
	Config  *config.Config
	Secrets *secrets.VaultManager

	Store      repository.Store
	Catalog    *prompts.Catalog
	Randomizer *randomization.Randomizer
	Gateway    *ai.Gateway

	EvaluationService *service.EvaluationService
	ChatService       *service.ChatService
	SurveyService     *service.SurveyService
	ResultsService    *service.ResultsService

	Health *health.Checker
}

// New creates a new dependency injection container. It fails when the prompt
// catalog does not cover every condition.
func New(db *gorm.DB, cfg *config.Config, log *logger.Logger) (*Container, error) {
	if cfg == nil {
		cfg = config.Get()
	}
	if log == nil {
		log = logger.GetGlobal()
	}

	catalog := prompts.Default()
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("prompt catalog is incomplete: %w", err)
	}

	secretManager, err := secrets.NewVaultManager(secrets.VaultConfig{
		Enabled:     cfg.Vault.Enabled,
		Address:     cfg.Vault.Address,
		Token:       cfg.Vault.Token,
		Namespace:   cfg.Vault.Namespace,
		MountPath:   cfg.Vault.MountPath,
		SecretsPath: cfg.Vault.SecretsPath,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create secrets manager: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	apiKey := secretManager.GetSecretWithDefault(ctx, cfg.Inference.APIKeySecret, "")
	cancel()

	gateway := ai.NewGateway(gatewayConfig(cfg, apiKey, log), catalog, log)

	store := repository.NewGormStore(db)
	randomizer := randomization.New()

	checker := health.NewChecker(log, healthCheckPeriod)
	checker.RegisterDatabaseCheck(func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	if cfg.Inference.HealthURL != "" {
		checker.RegisterAPICheck("inference", cfg.Inference.HealthURL, &http.Client{Timeout: 5 * time.Second})
	}

	return &Container{
		DB:         db,
		Logger:     log,
		Config:     cfg,
		Secrets:    secretManager,
		Store:      store,
		Catalog:    catalog,
		Randomizer: randomizer,
		Gateway:    gateway,
		EvaluationService: service.NewEvaluationService(store, randomizer, catalog, service.EvaluationOptions{
			RandomizeModelPerTopic: cfg.Study.RandomizeModelPerTopic,
		}),
		ChatService:    service.NewChatService(store, gateway),
		SurveyService:  service.NewSurveyService(store),
		ResultsService: service.NewResultsService(store),
		Health:         checker,
	}, nil
}

// Close releases background resources held by the container
func (c *Container) Close() {
	c.Secrets.Close()
}

func gatewayConfig(cfg *config.Config, apiKey string, log *logger.Logger) ai.Config {
	endpoints := make(map[models.LanguageModel]string, len(cfg.Inference.Endpoints))
	for name, url := range cfg.Inference.Endpoints {
		model, err := models.ParseLanguageModel(name)
		if err != nil {
			log.Warn("Ignoring endpoint of unknown model", "model", name)
			continue
		}
		endpoints[model] = url
	}

	return ai.Config{
		DefaultEndpoint: cfg.Inference.DefaultEndpoint,
		Endpoints:       endpoints,
		Timeout:         cfg.Inference.Timeout,
		APIKey:          apiKey,
		Params:          ai.DefaultParamTable(),
	}
}
