package constvars

const (
	LoggingRequestIDKey         = "request_id"
	LoggingRequestKey           = "request"
	LoggingResponseKey          = "response"
	LoggingQueryParamsKey       = "query_params"
	LoggingResponseLengthKey    = "response_length"
	LoggingMethodKey            = "method"
	LoggingEndpointKey          = "endpoint"
	LoggingRemoteAddrKey        = "remote_addr"
	LoggingUserAgentKey         = "user_agent"
	LoggingQueryKey             = "query"
	LoggingStatusCodeKey        = "status_code"
	LoggingDurationKey          = "duration"
	LoggingSuccessKey           = "success"
	LoggingURLKey               = "url"
	LoggingUIDKey               = "uid"
	LoggingRedisKey             = "redis_key"
	LoggingLockValueKey         = "lock_value"
	LoggingLockExpirationKey    = "lock_expiration"
	LoggingNationalIDKey        = "national_id"
	LoggingEmailKey             = "email"
	LoggingPlanIDKey            = "plan_id"
	LoggingSagaIDKey            = "saga_id"
	LoggingSagaStepKey          = "saga_step"
	LoggingSagaStateKey         = "saga_state"
	LoggingAttemptKey           = "attempt"
	LoggingCustomerIDKey        = "customer_id"
	LoggingSubscriptionIDKey    = "subscription_id"
	LoggingBeneficiaryUUIDKey   = "beneficiary_uuid"
	LoggingServiceTypeKey       = "service_type"
	LoggingSpecialtyIDKey       = "specialty_id"
	LoggingReferralUUIDKey      = "referral_uuid"
	LoggingReferralCountKey     = "referral_count"
	LoggingAppointmentUUIDKey   = "appointment_uuid"
	LoggingAppointmentCountKey  = "appointment_count"
	LoggingImmediateRequestKey  = "immediate_request_id"
	LoggingPaymentEventKey      = "payment_event"
	LoggingMessageIDKey         = "message_id"
	LoggingFailedCountKey       = "failed_count"
	LoggingIdentityUserIDKey    = "identity_user_id"
	LoggingObjectNameKey        = "object_name"
	LoggingProviderKey          = "provider"
	LoggingProviderStatusKey    = "provider_status"
	LoggingWarningCountKey      = "warning_count"
	LoggingCircuitBreakerName   = "circuit_breaker"
	LoggingCircuitBreakerFrom   = "from"
	LoggingCircuitBreakerTo     = "to"
	LoggingMessageCountKey      = "message_count"
	LoggingCronSpecKey          = "cron_spec"
	LoggingBucketKey            = "bucket"
	LoggingQueueKey             = "queue"
	LoggingPaymentCountKey      = "payment_count"
)
