package config

import (
	"telemed-service/internal/pkg/utils"
	"time"
)

const (
	minReferralTimeout = 60 * time.Second
	maxReferralTimeout = 120 * time.Second
)

type InternalConfig struct {
	App         App            `mapstructure:"app"`
	JWT         AppJWT         `mapstructure:"jwt"`
	Mailer      AppMailer      `mapstructure:"mailer"`
	Minio       AppMinio       `mapstructure:"minio"`
	RabbitMQ    AppRabbitMQ    `mapstructure:"rabbitmq"`
	Supertoken  AppSupertoken  `mapstructure:"supertoken"`
	Billing     AppBilling     `mapstructure:"billing"`
	Medical     AppMedical     `mapstructure:"medical"`
	Onboarding  AppOnboarding  `mapstructure:"onboarding"`
	Payment     AppPayment     `mapstructure:"payment"`
	Appointment AppAppointment `mapstructure:"appointment"`
}

type App struct {
	Env                        string `mapstructure:"env"`
	Port                       string `mapstructure:"port"`
	Version                    string `mapstructure:"version"`
	Address                    string `mapstructure:"address"`
	Timezone                   string `mapstructure:"timezone"`
	FrontendDomain             string `mapstructure:"frontend_domain"`
	EndpointPrefix             string `mapstructure:"endpoint_prefix"`
	MaxRequests                int    `mapstructure:"max_requests"`
	ShutdownTimeoutInSeconds   int    `mapstructure:"shutdown_timeout_in_seconds"`
	MaxTimeRequestsPerSeconds  int    `mapstructure:"max_time_requests_per_seconds"`
	RequestBodyLimitInMegabyte int    `mapstructure:"request_body_limit_in_megabyte"`
	RequestTimeoutInSeconds    int    `mapstructure:"request_timeout_in_seconds"`
	SuperadminAPIKey           string `mapstructure:"superadmin_api_key"`
	SuperadminAPIKeyRateLimit  int    `mapstructure:"superadmin_api_key_rate_limit"`
}

type AppJWT struct {
	Secret                   string `mapstructure:"secret"`
	StatusTokenExpTimeInHour int    `mapstructure:"status_token_exp_time_in_hour"`
}

type AppMailer struct {
	EmailSender string `mapstructure:"email_sender"`
}

type AppMinio struct {
	ReconciliationBucketName string `mapstructure:"reconciliation_bucket_name"`
}

type AppRabbitMQ struct {
	MailerQueue string `mapstructure:"mailer_queue"`
}

type AppSupertoken struct {
	TenantID string `mapstructure:"tenant_id"`
}

type AppBilling struct {
	BaseUrl                 string `mapstructure:"base_url"`
	ApiKey                  string `mapstructure:"api_key"`
	WebhookToken            string `mapstructure:"webhook_token"`
	RequestTimeoutInSeconds int    `mapstructure:"request_timeout_in_seconds"`
}

type AppMedical struct {
	BaseUrl                         string   `mapstructure:"base_url"`
	ClientID                        string   `mapstructure:"client_id"`
	Token                           string   `mapstructure:"token"`
	RequestTimeoutInSeconds         int      `mapstructure:"request_timeout_in_seconds"`
	RateLimitPerSecond              float64  `mapstructure:"rate_limit_per_second"`
	RateLimitBurst                  int      `mapstructure:"rate_limit_burst"`
	CircuitBreakerMaxRequests       int      `mapstructure:"circuit_breaker_max_requests"`
	CircuitBreakerIntervalInSeconds int      `mapstructure:"circuit_breaker_interval_in_seconds"`
	CircuitBreakerTimeoutInSeconds  int      `mapstructure:"circuit_breaker_timeout_in_seconds"`
	CircuitBreakerFailureThreshold  int      `mapstructure:"circuit_breaker_failure_threshold"`
	ConsistencyRetryAttempts        int      `mapstructure:"consistency_retry_attempts"`
	ConsistencyRetryDelayInMillis   int      `mapstructure:"consistency_retry_delay_in_milliseconds"`
	ReferralExemptSpecialties       []string `mapstructure:"referral_exempt_specialties"`
	DefaultSpecialtyUUID            string   `mapstructure:"default_specialty_uuid"`
	SpecialtyCacheTTLInMinutes      int      `mapstructure:"specialty_cache_ttl_in_minutes"`
	ReferralTimeoutInSeconds        int      `mapstructure:"referral_timeout_in_seconds"`
}

// ReferralTimeout is the deadline of the referral display lookup, kept within [60s, 120s].
func (m AppMedical) ReferralTimeout() time.Duration {
	return utils.ClampDuration(time.Duration(m.ReferralTimeoutInSeconds)*time.Second, minReferralTimeout, maxReferralTimeout)
}

// RequestTimeout bounds a single medical network call. Zero means no gateway deadline.
func (m AppMedical) RequestTimeout() time.Duration {
	return time.Duration(m.RequestTimeoutInSeconds) * time.Second
}

type AppOnboarding struct {
	LockTTLInSeconds int    `mapstructure:"lock_ttl_in_seconds"`
	SubscriberRole   string `mapstructure:"subscriber_role"`
}

type AppPayment struct {
	ReconciliationCronSpec string `mapstructure:"reconciliation_cron_spec"`
	EventMaxRetry          int    `mapstructure:"event_max_retry"`
	EventBatchSize         int    `mapstructure:"event_batch_size"`
	AwaitMaxAgeInHours     int    `mapstructure:"await_max_age_in_hours"`
	WorkerLockTTLInSeconds int    `mapstructure:"worker_lock_ttl_in_seconds"`
}

type AppAppointment struct {
	CancellationThresholdInHours int `mapstructure:"cancellation_threshold_in_hours"`
	ImmediateRequestTTLInMinutes int `mapstructure:"immediate_request_ttl_in_minutes"`
	AvailabilityMaxRangeInDays   int `mapstructure:"availability_max_range_in_days"`
}
