package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"telemed-service/internal/app/config"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/app/delivery/http/controllers"
	"telemed-service/internal/app/delivery/http/middlewares"
	"telemed-service/internal/app/delivery/http/routers"
	"telemed-service/internal/app/drivers/database"
	"telemed-service/internal/app/drivers/identity"
	"telemed-service/internal/app/drivers/logger"
	"telemed-service/internal/app/drivers/messaging"
	"telemed-service/internal/app/drivers/rbac"
	"telemed-service/internal/app/drivers/storage"
	"telemed-service/internal/app/services/core/appointments"
	"telemed-service/internal/app/services/core/beneficiaries"
	"telemed-service/internal/app/services/core/onboarding"
	"telemed-service/internal/app/services/core/payments"
	"telemed-service/internal/app/services/core/plans"
	"telemed-service/internal/app/services/core/referrals"
	"telemed-service/internal/app/services/core/subscribers"
	"telemed-service/internal/app/services/shared/billing"
	identityGateway "telemed-service/internal/app/services/shared/identity"
	"telemed-service/internal/app/services/shared/jwtmanager"
	"telemed-service/internal/app/services/shared/locker"
	"telemed-service/internal/app/services/shared/mailer"
	"telemed-service/internal/app/services/shared/medical"
	"telemed-service/internal/app/services/shared/paymentqueue"
	redisRepository "telemed-service/internal/app/services/shared/redis"
	minioStorage "telemed-service/internal/app/services/shared/storage"
	"telemed-service/internal/pkg/constvars"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/supertokens/supertokens-golang/supertokens"
	"go.uber.org/zap"
)

// Version sets the default build version
var Version = "develop"

// Tag sets the default latest commit tag
var Tag = "0.0.1-rc"

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)
	log.Info("Starting telemed-service",
		zap.String("version", Version),
		zap.String("tag", Tag),
	)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatal("Error loading location", zap.Error(err))
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig, internalConfig)
	identity.InitSupertokens(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		Logger:         log,
		RabbitMQ:       rabbitMQ,
		Minio:          minioClient,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	if err := bootstrapingTheApp(workerCtx, bootstrap); err != nil {
		log.Fatal("Error bootstrapping the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: supertokens.Middleware(chiRouter),
	}

	go func() {
		log.Info("Server listening", zap.String("address", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	cancelWorkers()
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down dependencies", zap.Error(err))
	}

	log.Info("Server exiting")
}

func bootstrapingTheApp(ctx context.Context, bootstrap *config.Bootstrap) error {
	cfg := bootstrap.InternalConfig
	log := bootstrap.Logger

	// Shared services
	redisRepo := redisRepository.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepo, log)
	tokenManager, err := jwtmanager.NewJWTManager(cfg, log)
	if err != nil {
		return err
	}
	mailerService, err := mailer.NewMailerService(bootstrap.RabbitMQ, cfg.RabbitMQ.MailerQueue, log)
	if err != nil {
		return err
	}
	paymentQueue, err := paymentqueue.NewPaymentQueueService(bootstrap.RabbitMQ, log, cfg.Payment.EventBatchSize)
	if err != nil {
		return err
	}
	storageService := minioStorage.NewMinioStorage(bootstrap.Minio, cfg.Minio.ReconciliationBucketName, log)

	// Gateways
	billingGateway := billing.NewBillingGateway(cfg, log)
	medicalGateway := medical.NewMedicalGateway(cfg, log)
	identityGw := identityGateway.NewIdentityGateway(cfg.Supertoken.TenantID, log)
	ensureRoles(ctx, identityGw, cfg, log)

	// Repositories
	subscriberRepository := subscribers.NewSubscriberMongoRepository(bootstrap.MongoDB)
	subscriptionRepository := subscribers.NewSubscriptionMongoRepository(bootstrap.MongoDB)
	planRepository := plans.NewPlanMongoRepository(bootstrap.MongoDB)
	sagaRepository := onboarding.NewOnboardingSagaMongoRepository(bootstrap.MongoDB)
	immediateRequestRepository := appointments.NewImmediateRequestMongoRepository(bootstrap.MongoDB)

	// Domain services
	referralResolver := referrals.NewReferralResolver(medicalGateway, redisRepo, cfg, log)
	provisioner := beneficiaries.NewBeneficiaryProvisioner(medicalGateway, cfg, log)

	// Usecases
	planUsecase := plans.NewPlanUsecase(planRepository, medicalGateway, referralResolver, log)
	onboardingUsecase := onboarding.NewOnboardingUsecase(onboarding.Dependencies{
		SubscriberRepository:   subscriberRepository,
		SubscriptionRepository: subscriptionRepository,
		PlanRepository:         planRepository,
		SagaRepository:         sagaRepository,
		BillingGateway:         billingGateway,
		IdentityGateway:        identityGw,
		Provisioner:            provisioner,
		Locker:                 lockerService,
		Mailer:                 mailerService,
		Storage:                storageService,
		TokenManager:           tokenManager,
	}, cfg, log)
	appointmentUsecase := appointments.NewAppointmentUsecase(
		subscriberRepository,
		subscriptionRepository,
		planRepository,
		immediateRequestRepository,
		medicalGateway,
		referralResolver,
		cfg,
		log,
	)
	paymentUsecase := payments.NewPaymentUsecase(
		paymentQueue,
		sagaRepository,
		subscriptionRepository,
		subscriberRepository,
		billingGateway,
		onboardingUsecase,
		cfg,
		log,
	)

	// Payment reconciliation
	paymentWorker := payments.NewWorker(log, cfg, lockerService, paymentQueue, paymentUsecase)
	bootstrap.PaymentWorkerStop = paymentWorker.Start(ctx)

	// HTTP
	enforcer := rbac.NewEnforcer(rbac.DefaultModelPath, rbac.DefaultPolicyPath)
	mw := middlewares.NewMiddlewares(log, cfg, enforcer)

	routers.SetupRoutes(bootstrap.Router, cfg, mw, routers.Controllers{
		Onboarding:  controllers.NewOnboardingController(log, cfg, onboardingUsecase),
		Plan:        controllers.NewPlanController(log, cfg, planUsecase),
		Appointment: controllers.NewAppointmentController(log, cfg, appointmentUsecase),
		Webhook:     controllers.NewWebhookController(log, cfg, paymentUsecase),
	})
	return nil
}

// ensureRoles registers the roles the RBAC policy grants on the identity provider.
func ensureRoles(ctx context.Context, identityGw contracts.IdentityGateway, cfg *config.InternalConfig, log *zap.Logger) {
	roles := []string{constvars.RoleSuperadmin, cfg.Onboarding.SubscriberRole}
	for _, role := range roles {
		if role == "" {
			continue
		}
		if err := identityGw.EnsureRole(ctx, role, []string{"read", "write"}); err != nil {
			log.Error("ensureRoles error creating role",
				zap.String("role", role),
				zap.Error(err),
			)
		}
	}
}
