package bootstrap

import (
	"context"
	"log"

	"ai-studio-be/internal/config"
	"ai-studio-be/internal/controller"
	"ai-studio-be/internal/pkg/logger"
	"ai-studio-be/internal/repository/memory"
	"ai-studio-be/internal/repository/unitofwork"
	"ai-studio-be/internal/service"
	"ai-studio-be/pkg/alerts"
	"ai-studio-be/pkg/genai/factory"

	pktNats "ai-studio-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ledgerPatchTopic carries the async related_entity_id back-fill messages.
const ledgerPatchTopic = "credit.ledger.patch"

type Container struct {
	// Controllers
	CreditController       controller.ICreditController
	CourseController       controller.ICourseController
	PresentationController controller.IPresentationController
	VoiceAgentController   controller.IVoiceAgentController
	PaymentController      controller.IPaymentController

	// Background Services (Exposed for main.go to run)
	PatchConsumerService service.IPatchConsumerService
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

	// 3. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
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
	}

	// Generation Provider based on Config
	genProvider, err := factory.NewProvider(
		cfg.Ai.Provider,
		cfg.Ai.OllamaModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize generation provider: %v", err)
	}
	log.Printf("[INFO] Using generation provider: %s", cfg.Ai.Provider)

	balanceCache := memory.NewBalanceCache()

	// 4. Services
	publisherService := service.NewPublisherService(ledgerPatchTopic, pubSub)
	patchConsumerService := service.NewPatchConsumerService(
		pubSub,
		ledgerPatchTopic,
		uowFactory,
		sysLogger,
	)

	alertPublisher := alerts.NewNatsPublisher(natsPub, sysLogger)

	creditService := service.NewCreditService(
		uowFactory,
		balanceCache,
		publisherService,
		alertPublisher,
		sysLogger,
	)

	courseService := service.NewCourseService(uowFactory, creditService, genProvider)
	presentationService := service.NewPresentationService(uowFactory, creditService, genProvider)
	voiceAgentService := service.NewVoiceAgentService(uowFactory, creditService, genProvider)

	paymentService := service.NewPaymentService(
		uowFactory,
		creditService,
		cfg.Payment,
		cfg.App.ClientURL,
		cfg.App.Environment,
		rdb,
		alertPublisher,
		sysLogger,
	)

	// 5. Controllers
	return &Container{
		CreditController:       controller.NewCreditController(creditService),
		CourseController:       controller.NewCourseController(courseService),
		PresentationController: controller.NewPresentationController(presentationService),
		VoiceAgentController:   controller.NewVoiceAgentController(voiceAgentService),
		PaymentController:      controller.NewPaymentController(paymentService),

		PatchConsumerService: patchConsumerService,
	}
}
