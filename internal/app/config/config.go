package config

import (
	"telemed-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			Username: utils.GetEnvString("MONGODB_USERNAME", ""),
			Password: utils.GetEnvString("MONGODB_PASSWORD", ""),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "telemed"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "minioadmin"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "minioadmin"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
		Supertoken: Supertoken{
			ConnectionURI: utils.GetEnvString("SUPERTOKEN_CONNECTION_URI", "http://localhost:3567"),
			APIKey:        utils.GetEnvString("SUPERTOKEN_API_KEY", ""),
			AppName:       utils.GetEnvString("SUPERTOKEN_APP_NAME", "telemed"),
			APIDomain:     utils.GetEnvString("SUPERTOKEN_API_DOMAIN", "http://localhost:8080"),
			WebsiteDomain: utils.GetEnvString("SUPERTOKEN_WEBSITE_DOMAIN", "http://localhost:3000"),
			APIBasePath:   utils.GetEnvString("SUPERTOKEN_API_BASE_PATH", "/api/v1/auth"),
			WebBasePath:   utils.GetEnvString("SUPERTOKEN_WEBSITE_BASE_PATH", "/auth"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", "8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Address:                    utils.GetEnvString("APP_ADDRESS", "0.0.0.0"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "America/Sao_Paulo"),
			FrontendDomain:             utils.GetEnvString("APP_FRONTEND_DOMAIN", "http://localhost:3000"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 100),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 60),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 2),
			RequestTimeoutInSeconds:    utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 60),
			SuperadminAPIKey:           utils.GetEnvString("APP_SUPERADMIN_API_KEY", ""),
			SuperadminAPIKeyRateLimit:  utils.GetEnvInt("APP_SUPERADMIN_API_KEY_RATE_LIMIT", 100),
		},
		JWT: AppJWT{
			Secret:                   utils.GetEnvString("JWT_SECRET", ""),
			StatusTokenExpTimeInHour: utils.GetEnvInt("JWT_STATUS_TOKEN_EXP_TIME_IN_HOUR", 168),
		},
		Mailer: AppMailer{
			EmailSender: utils.GetEnvString("APP_MAILER_EMAIL_SENDER", "no-reply@telemed.local"),
		},
		Minio: AppMinio{
			ReconciliationBucketName: utils.GetEnvString("MINIO_RECONCILIATION_BUCKET_NAME", "reconciliation"),
		},
		RabbitMQ: AppRabbitMQ{
			MailerQueue: utils.GetEnvString("APP_RABBITMQ_MAILER_QUEUE", "mailer"),
		},
		Supertoken: AppSupertoken{
			TenantID: utils.GetEnvString("SUPERTOKEN_TENANT_ID", "public"),
		},
		Billing: AppBilling{
			BaseUrl:                 utils.GetEnvString("BILLING_BASE_URL", "https://sandbox.asaas.com/api/v3"),
			ApiKey:                  utils.GetEnvString("BILLING_API_KEY", ""),
			WebhookToken:            utils.GetEnvString("BILLING_WEBHOOK_TOKEN", ""),
			RequestTimeoutInSeconds: utils.GetEnvInt("BILLING_REQUEST_TIMEOUT_IN_SECONDS", 30),
		},
		Medical: AppMedical{
			BaseUrl:                         utils.GetEnvString("MEDICAL_BASE_URL", "https://sandbox.rapidoc.tech/tema/api"),
			ClientID:                        utils.GetEnvString("MEDICAL_CLIENT_ID", ""),
			Token:                           utils.GetEnvString("MEDICAL_TOKEN", ""),
			RequestTimeoutInSeconds:         utils.GetEnvInt("MEDICAL_REQUEST_TIMEOUT_IN_SECONDS", 30),
			RateLimitPerSecond:              utils.GetEnvFloat("MEDICAL_RATE_LIMIT_PER_SECOND", 10),
			RateLimitBurst:                  utils.GetEnvInt("MEDICAL_RATE_LIMIT_BURST", 20),
			CircuitBreakerMaxRequests:       utils.GetEnvInt("MEDICAL_CIRCUIT_BREAKER_MAX_REQUESTS", 3),
			CircuitBreakerIntervalInSeconds: utils.GetEnvInt("MEDICAL_CIRCUIT_BREAKER_INTERVAL_IN_SECONDS", 60),
			CircuitBreakerTimeoutInSeconds:  utils.GetEnvInt("MEDICAL_CIRCUIT_BREAKER_TIMEOUT_IN_SECONDS", 30),
			CircuitBreakerFailureThreshold:  utils.GetEnvInt("MEDICAL_CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			ConsistencyRetryAttempts:        utils.GetEnvInt("MEDICAL_CONSISTENCY_RETRY_ATTEMPTS", 3),
			ConsistencyRetryDelayInMillis:   utils.GetEnvInt("MEDICAL_CONSISTENCY_RETRY_DELAY_IN_MILLISECONDS", 2000),
			ReferralExemptSpecialties:       utils.GetEnvStringSlice("MEDICAL_REFERRAL_EXEMPT_SPECIALTIES", nil),
			DefaultSpecialtyUUID:            utils.GetEnvString("MEDICAL_DEFAULT_SPECIALTY_UUID", ""),
			SpecialtyCacheTTLInMinutes:      utils.GetEnvInt("MEDICAL_SPECIALTY_CACHE_TTL_IN_MINUTES", 60),
			ReferralTimeoutInSeconds:        utils.GetEnvInt("MEDICAL_REFERRAL_TIMEOUT_IN_SECONDS", 90),
		},
		Onboarding: AppOnboarding{
			LockTTLInSeconds: utils.GetEnvInt("ONBOARDING_LOCK_TTL_IN_SECONDS", 120),
			SubscriberRole:   utils.GetEnvString("ONBOARDING_SUBSCRIBER_ROLE", "subscriber"),
		},
		Payment: AppPayment{
			ReconciliationCronSpec: utils.GetEnvString("PAYMENT_RECONCILIATION_CRON_SPEC", "@every 7s"),
			EventMaxRetry:          utils.GetEnvInt("PAYMENT_EVENT_MAX_RETRY", 5),
			EventBatchSize:         utils.GetEnvInt("PAYMENT_EVENT_BATCH_SIZE", 50),
			AwaitMaxAgeInHours:     utils.GetEnvInt("PAYMENT_AWAIT_MAX_AGE_IN_HOURS", 168),
			WorkerLockTTLInSeconds: utils.GetEnvInt("PAYMENT_WORKER_LOCK_TTL_IN_SECONDS", 30),
		},
		Appointment: AppAppointment{
			CancellationThresholdInHours: utils.GetEnvInt("APPOINTMENT_CANCELLATION_THRESHOLD_IN_HOURS", 24),
			ImmediateRequestTTLInMinutes: utils.GetEnvInt("IMMEDIATE_REQUEST_TTL_IN_MINUTES", 30),
			AvailabilityMaxRangeInDays:   utils.GetEnvInt("APPOINTMENT_AVAILABILITY_MAX_RANGE_IN_DAYS", 31),
		},
	}
}
