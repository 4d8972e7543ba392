package constvars

const (
	OnboardingCompletedSuccessMessage      = "subscriber provisioned successfully"
	OnboardingAwaitingPaymentMessage       = "subscription created, waiting for payment confirmation"
	OnboardingResumedSuccessMessage        = "onboarding resumed successfully"
	OnboardingStatusSuccessMessage         = "onboarding status retrieved"
	PlanCreatedSuccessMessage              = "plan created successfully"
	AppointmentCreatedSuccessMessage       = "appointment booked successfully"
	AppointmentListSuccessMessage          = "appointments retrieved successfully"
	AvailabilitySuccessMessage             = "availability retrieved successfully"
	ReferralListSuccessMessage             = "referrals retrieved successfully"
	ImmediateRequestCreatedSuccessMessage  = "immediate consultation requested successfully"
	ImmediateRequestFetchedSuccessMessage  = "immediate consultation request retrieved"
	ImmediateRequestCanceledSuccessMessage = "immediate consultation request canceled"
	BillingWebhookAcceptedMessage          = "event accepted"
)
