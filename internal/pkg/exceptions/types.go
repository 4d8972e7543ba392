package exceptions

import (
	"fmt"
	"telemed-service/internal/pkg/constvars"
	"time"
)

const (
	DetailProvider       = "provider"
	DetailProviderStatus = "status"
	DetailProviderBody   = "body"
	DetailSubmittedBody  = "submitted_body"
	DetailSpecialtyID    = "specialty_id"
	DetailWarnings       = "warnings"
)

var (
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed).
			WithKind(constvars.ErrorKindValidation).
			WithDetails(map[string]interface{}{"fields": FormatAllValidationErrors(err)})
	}
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON).
			WithKind(constvars.ErrorKindValidation)
	}
	ErrCannotParseDate = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseDate).
			WithKind(constvars.ErrorKindValidation)
	}
	ErrInvalidDateRange = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientInvalidDateRange, constvars.ErrDevInvalidInput).
			WithKind(constvars.ErrorKindValidation)
	}
	ErrInvalidTimeWindow = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientInvalidTimeWindow, constvars.ErrDevInvalidInput).
			WithKind(constvars.ErrorKindValidation)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON).
			WithKind(constvars.ErrorKindInternal)
	}
	ErrServerProcess = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevServerProcess).
			WithKind(constvars.ErrorKindInternal)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded).
			WithKind(constvars.ErrorKindTimeout)
	}
	ErrTokenInvalidOrExpired = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenInvalidOrExpired).
			WithKind(constvars.ErrorKindUnauthorized)
	}
	ErrNotAuthorized = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrClientNotAuthorized, constvars.ErrDevForbiddenByPolicy).
			WithKind(constvars.ErrorKindForbidden)
	}
	ErrTooManyRequests = func(err error, client string, until time.Time) *CustomError {
		return BuildNewCustomError(err, constvars.StatusTooManyRequests, constvars.ErrClientTooManyRequests, fmt.Sprintf(constvars.ErrDevRateLimited, client, until.Format(time.RFC3339))).
			WithKind(constvars.ErrorKindForbidden)
	}
	ErrMissingUID = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevMissingUID).
			WithKind(constvars.ErrorKindUnauthorized)
	}
	ErrInvalidStatusToken = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientInvalidStatusToken, constvars.ErrDevInvalidStatusToken).
			WithKind(constvars.ErrorKindUnauthorized)
	}
	ErrInvalidWebhookToken = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientInvalidWebhookToken, constvars.ErrDevInvalidWebhookToken).
			WithKind(constvars.ErrorKindUnauthorized)
	}
	ErrTokenSign = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevTokenSign).
			WithKind(constvars.ErrorKindInternal)
	}
)

// Upstream
var (
	ErrCreateHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCreateHTTPRequest).
			WithKind(constvars.ErrorKindInternal)
	}
	ErrSendHTTPRequest = func(err error, provider string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientUpstreamUnavailable, constvars.ErrDevSendHTTPRequest).
			WithKind(constvars.ErrorKindUpstreamFatal).
			WithDetails(map[string]interface{}{DetailProvider: provider})
	}
	ErrUpstreamTimeout = func(err error, provider string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientUpstreamUnavailable, fmt.Sprintf(constvars.ErrDevUpstreamTimeout, provider)).
			WithKind(constvars.ErrorKindTimeout).
			WithDetails(map[string]interface{}{DetailProvider: provider})
	}
	ErrDecodeUpstreamResponse = func(err error, provider string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientUpstreamUnavailable, fmt.Sprintf(constvars.ErrDevDecodeUpstreamResponse, provider)).
			WithKind(constvars.ErrorKindUpstreamFatal).
			WithDetails(map[string]interface{}{DetailProvider: provider})
	}
	ErrUpstreamFatal = func(provider string, statusCode int, body string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadGateway, constvars.ErrClientUpstreamUnavailable, fmt.Sprintf(constvars.ErrDevUpstreamFatal, provider, statusCode)).
			WithKind(constvars.ErrorKindUpstreamFatal).
			WithDetails(map[string]interface{}{
				DetailProvider:       provider,
				DetailProviderStatus: statusCode,
				DetailProviderBody:   body,
			})
	}
	ErrUpstreamNotConsistent = func(provider string, statusCode int, body string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadGateway, constvars.ErrClientUpstreamNotConsistent, fmt.Sprintf(constvars.ErrDevUpstreamNotConsistent, provider, statusCode)).
			WithKind(constvars.ErrorKindUpstreamEventualConsistency).
			WithDetails(map[string]interface{}{
				DetailProvider:       provider,
				DetailProviderStatus: statusCode,
				DetailProviderBody:   body,
			})
	}
	ErrUpstreamCircuitOpen = func(err error, provider string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusServiceUnavailable, constvars.ErrClientUpstreamUnavailable, fmt.Sprintf(constvars.ErrDevUpstreamCircuitOpen, provider)).
			WithKind(constvars.ErrorKindUpstreamFatal).
			WithDetails(map[string]interface{}{DetailProvider: provider})
	}
	ErrIdentityProvider = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientUpstreamUnavailable, constvars.ErrDevIdentityProvider).
			WithKind(constvars.ErrorKindUpstreamFatal).
			WithDetails(map[string]interface{}{DetailProvider: constvars.ProviderIdentity})
	}
)

// Storage and messaging
var (
	ErrMongoDBFindDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToFindDocument).
			WithKind(constvars.ErrorKindInternal)
	}
	ErrMongoDBInsertDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToInsertDocument).
			WithKind(constvars.ErrorKindInternal)
	}
	ErrMongoDBUpdateDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToUpdateDocument).
			WithKind(constvars.ErrorKindInternal)
	}
	ErrMongoDBIterateDocuments = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToIterateDocuments).
			WithKind(constvars.ErrorKindInternal)
	}
	ErrRedisSetData = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSetData).
			WithKind(constvars.ErrorKindInternal)
	}
	ErrRedisDeleteData = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisDeleteData).
			WithKind(constvars.ErrorKindInternal)
	}
	ErrRedisUnlock = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisUnlock).
			WithKind(constvars.ErrorKindInternal)
	}
	ErrRabbitMQPublishMessage = func(err error, queue string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQPublishMessage, queue)).
			WithKind(constvars.ErrorKindInternal)
	}
	ErrRabbitMQConsumeMessage = func(err error, queue string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQConsumeMessage, queue)).
			WithKind(constvars.ErrorKindInternal)
	}
	ErrMinioCreateObject = func(err error, bucket string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioFailedToCreateObject, bucket)).
			WithKind(constvars.ErrorKindInternal)
	}
)

// Domain
var (
	ErrSubscriberNotFound = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientSubscriberNotFound, fmt.Sprintf(constvars.ErrDevNotFound, "subscriber")).
			WithKind(constvars.ErrorKindNotFound)
	}
	ErrPlanNotFound = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientPlanNotFound, fmt.Sprintf(constvars.ErrDevNotFound, "plan")).
			WithKind(constvars.ErrorKindNotFound)
	}
	ErrBeneficiaryNotFound = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientBeneficiaryNotFound, fmt.Sprintf(constvars.ErrDevNotFound, "beneficiary")).
			WithKind(constvars.ErrorKindNotFound)
	}
	ErrAppointmentNotFound = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientAppointmentNotFound, fmt.Sprintf(constvars.ErrDevNotFound, "appointment")).
			WithKind(constvars.ErrorKindNotFound)
	}
	ErrImmediateRequestNotFound = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientImmediateRequestNotFound, fmt.Sprintf(constvars.ErrDevNotFound, "immediate request")).
			WithKind(constvars.ErrorKindNotFound)
	}
	ErrOnboardingNotFound = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientOnboardingNotFound, fmt.Sprintf(constvars.ErrDevNotFound, "onboarding")).
			WithKind(constvars.ErrorKindNotFound)
	}
	ErrNoReferralFound = func(err error, specialtyID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientNoReferralFound, fmt.Sprintf(constvars.ErrDevNoReferralFound, specialtyID)).
			WithKind(constvars.ErrorKindNotFound).
			WithDetails(map[string]interface{}{DetailSpecialtyID: specialtyID})
	}
	ErrNoBookableReferral = func(err error, specialtyID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnprocessableEntity, constvars.ErrClientNoBookableReferral, fmt.Sprintf(constvars.ErrDevNoBookableReferral, specialtyID)).
			WithKind(constvars.ErrorKindNotFound).
			WithDetails(map[string]interface{}{DetailSpecialtyID: specialtyID})
	}
	ErrUnknownSpecialty = func(specialtyID string, submittedBody interface{}) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientUnknownSpecialty, fmt.Sprintf(constvars.ErrDevUnknownSpecialty, specialtyID)).
			WithKind(constvars.ErrorKindCompatibility).
			WithDetails(map[string]interface{}{
				DetailSpecialtyID:   specialtyID,
				DetailSubmittedBody: submittedBody,
			})
	}
	ErrSpecialtyNotInPlan = func(specialtyID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientSpecialtyNotInPlan, fmt.Sprintf(constvars.ErrDevUnknownSpecialty, specialtyID)).
			WithKind(constvars.ErrorKindCompatibility).
			WithDetails(map[string]interface{}{DetailSpecialtyID: specialtyID})
	}
	ErrPaymentTypeIncompatible = func(planPaymentType, medicalPaymentType string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientPaymentTypeIncompatible, fmt.Sprintf(constvars.ErrDevPaymentTypeIncompatible, planPaymentType, medicalPaymentType)).
			WithKind(constvars.ErrorKindCompatibility).
			WithDetails(map[string]interface{}{
				"payment_type":         planPaymentType,
				"medical_payment_type": medicalPaymentType,
			})
	}
	ErrCancellationWindowClosed = func(remaining, threshold time.Duration) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientCancellationWindowClosed, fmt.Sprintf(constvars.ErrDevCancellationWindowClosed, remaining, threshold)).
			WithKind(constvars.ErrorKindCompatibility)
	}
	ErrAppointmentNotCancelable = func(status string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientAppointmentNotCancelable, "appointment status "+status+" is terminal").
			WithKind(constvars.ErrorKindCompatibility)
	}
	ErrOnboardingInProgress = func(nationalID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientOnboardingInProgress, fmt.Sprintf(constvars.ErrDevOnboardingLocked, nationalID)).
			WithKind(constvars.ErrorKindConflict)
	}
	ErrActiveSubscriptionExists = func(nationalID, subscriptionID, planID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientActiveSubscriptionExists, fmt.Sprintf(constvars.ErrDevActiveSubscriptionExists, nationalID, subscriptionID, planID)).
			WithKind(constvars.ErrorKindConflict)
	}
	ErrOnboardingExpired = func(sagaID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientOnboardingExpired, fmt.Sprintf(constvars.ErrDevOnboardingExpired, sagaID)).
			WithKind(constvars.ErrorKindConflict)
	}
	ErrImmediateRequestClosed = func(status string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientImmediateRequestClosed, "immediate request status is "+status).
			WithKind(constvars.ErrorKindConflict)
	}
)
