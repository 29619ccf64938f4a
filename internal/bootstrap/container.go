package bootstrap

import (
	"context"
	"log"

	"ai-coursegen-be/internal/config"
	"ai-coursegen-be/internal/controller"
	"ai-coursegen-be/internal/lock"
	"ai-coursegen-be/internal/pkg/logger"
	"ai-coursegen-be/internal/repository/memory"
	"ai-coursegen-be/internal/repository/unitofwork"
	"ai-coursegen-be/internal/service"
	"ai-coursegen-be/pkg/llm/factory"

	pktNats "ai-coursegen-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	GenerationController controller.IGenerationController
	ProposalController   controller.IProposalController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Ai.LLMAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-memory guard against double processing of a session
	runGuard := memory.NewRunGuard()

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}
	uploadLock := lock.NewUploadLock(rdb)

	// 3. Services
	publisherService := service.NewPublisherService(cfg.Queue.ProcessSessionTopic, pubSub)

	generationService := service.NewGenerationService(
		uowFactory,
		llmProvider,
		natsPub,
		sysLogger,
		runGuard,
		cfg.Ai.MaxTokens,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Queue.ProcessSessionTopic,
		generationService,
	)

	sessionService := service.NewSessionService(
		uowFactory,
		generationService,
		publisherService,
		natsPub,
		sysLogger,
	)
	reviewService := service.NewReviewService(uowFactory, generationService)
	uploadService := service.NewUploadService(
		uowFactory,
		uploadLock,
		natsPub,
		sysLogger,
	)

	// 3.5 Event Mirror (Worker)
	eventLogService := service.NewEventLogService(natsSub, sysLogger)
	if natsSub != nil {
		go eventLogService.Start()
	}

	// 4. Controllers
	return &Container{
		GenerationController: controller.NewGenerationController(sessionService, reviewService, uploadService),
		ProposalController:   controller.NewProposalController(reviewService),

		ConsumerService: consumerService,
	}
}
