package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":             "is required",
	"required_without":     "is required when %s is not present",
	"required_with":        "is required when %s is present",
	"email":                "must be a valid email",
	"numeric":              "must be a number",
	"len":                  "must be %s characters long",
	"oneof":                "must be one of [%s]",
	"gt":                   "must be greater than %s",
	"gte":                  "must be greater than or equal to %s",
	"min":                  "must be at least %s characters long",
	"max":                  "maximum at %s characters long",
	"uuid":                 "must be a valid UUID",
	"cpf":                  "must be a valid CPF with 11 digits",
	"iso_date":             "must be a date formatted as yyyy-MM-dd",
	"br_date":              "must be a date formatted as dd/MM/yyyy",
	"hhmm":                 "must be a time formatted as HH:mm",
	"payment_type":         "must be one of [S, A, L]",
	"required_without_all": "is required when none of [%s] are present",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"len":              true,
	"oneof":            true,
	"gt":               true,
	"gte":              true,
	"min":              true,
	"max":              true,
	"required_with":    true,
	"required_without": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientSubscriberNotFound            = "subscriber not found"
	ErrClientPlanNotFound                  = "plan not found"
	ErrClientBeneficiaryNotFound           = "beneficiary not found in the medical network"
	ErrClientAppointmentNotFound           = "appointment not found"
	ErrClientImmediateRequestNotFound      = "immediate consultation request not found"
	ErrClientOnboardingNotFound            = "onboarding not found"
	ErrClientNoReferralFound               = "no referral found for the requested specialty"
	ErrClientNoBookableReferral            = "all referrals for the requested specialty were already used or expired"
	ErrClientUnknownSpecialty              = "the requested specialty does not exist"
	ErrClientSpecialtyNotInPlan            = "the requested specialty is not covered by your plan"
	ErrClientPaymentTypeIncompatible       = "the payment type is not compatible with the medical plan"
	ErrClientCancellationWindowClosed      = "appointments can only be canceled more than 24 hours in advance"
	ErrClientAppointmentNotCancelable      = "the appointment can no longer be canceled"
	ErrClientOnboardingInProgress          = "an onboarding for this national id is already in progress"
	ErrClientActiveSubscriptionExists      = "the subscriber already has an active subscription for another plan"
	ErrClientOnboardingExpired             = "the onboarding expired waiting for payment, start a new one"
	ErrClientUpstreamUnavailable           = "an external provider failed to process the request"
	ErrClientUpstreamNotConsistent         = "an external provider has not finished processing the previous step, try again later"
	ErrClientInvalidStatusToken            = "the status token is invalid or expired"
	ErrClientInvalidWebhookToken           = "invalid webhook token"
	ErrClientImmediateRequestClosed        = "the immediate consultation request is already closed"
	ErrClientInvalidDateRange              = "dateInitial must not be after dateFinal"
	ErrClientInvalidTimeWindow             = "the consultation window must end after it starts"
	ErrClientInvalidAPIKey                 = "Invalid API key"
	ErrClientTooManyRequests               = "too many requests, you are temporarily blocked"
)

// Error messages for developers
const (
	ErrDevInvalidInput                  = "invalid input"
	ErrDevValidationFailed              = "validation failed"
	ErrDevCannotParseJSON               = "cannot parse JSON"
	ErrDevCannotMarshalJSON             = "cannot marshal JSON"
	ErrDevCannotParseDate               = "cannot parse date"
	ErrDevServerProcess                 = "server process failed"
	ErrDevServerDeadlineExceeded        = "server deadline exceeded"
	ErrDevMissingUID                    = "uid missing from context"
	ErrDevAuthTokenInvalidOrExpired     = "auth token invalid or expired"
	ErrDevForbiddenByPolicy             = "request denied by rbac policy"
	ErrDevCreateHTTPRequest             = "failed to create HTTP request"
	ErrDevSendHTTPRequest               = "failed to send HTTP request"
	ErrDevUpstreamTimeout               = "%s did not answer in time"
	ErrDevDecodeUpstreamResponse        = "failed to decode %s response"
	ErrDevUpstreamFatal                 = "%s responded with status %d"
	ErrDevUpstreamNotConsistent         = "%s not yet consistent, responded with status %d"
	ErrDevUpstreamCircuitOpen           = "%s circuit breaker is open"
	ErrDevDBFailedToFindDocument        = "failed to find document"
	ErrDevDBFailedToInsertDocument      = "failed to insert document"
	ErrDevDBFailedToUpdateDocument      = "failed to update document"
	ErrDevDBFailedToIterateDocuments    = "failed to iterate documents"
	ErrDevRedisDeleteData               = "failed to delete data in redis"
	ErrDevRedisSetData                  = "failed to set data in redis"
	ErrDevRedisUnlock                   = "failed to release redis lock"
	ErrDevRabbitMQPublishMessage        = "failed to publish message to %s"
	ErrDevRabbitMQConsumeMessage        = "failed to fetch message from %s"
	ErrDevMinioFailedToCreateObject     = "failed to create object in bucket %s"
	ErrDevIdentityProvider              = "identity provider request failed"
	ErrDevTokenSign                     = "failed to sign token"
	ErrDevNotFound                      = "%s not found"
	ErrDevNoReferralFound               = "no referral for specialty %s"
	ErrDevNoBookableReferral            = "no bookable referral for specialty %s"
	ErrDevUnknownSpecialty              = "unknown specialty %s"
	ErrDevPaymentTypeIncompatible       = "payment type %s is not compatible with medical plan payment type %s"
	ErrDevCancellationWindowClosed      = "appointment starts in %s, threshold is %s"
	ErrDevOnboardingLocked              = "onboarding lock for %s is held"
	ErrDevActiveSubscriptionExists      = "subscriber %s holds active subscription %s for plan %s"
	ErrDevOnboardingExpired             = "saga %s expired waiting for payment"
	ErrDevInvalidStatusToken            = "status token rejected"
	ErrDevInvalidWebhookToken           = "webhook token mismatch"
	ErrDevRateLimited                   = "client %s blocked until %s"
)
