package constvars

const (
	BillingHeaderAccessToken  = "access_token"
	BillingWebhookTokenHeader = "asaas-access-token"
)

const (
	BillingPathCustomers            = "/customers"
	BillingPathSubscriptions        = "/subscriptions"
	BillingPathSubscriptionPayments = "/subscriptions/%s/payments"
)

const (
	BillingMethodBoleto     = "BOLETO"
	BillingMethodCreditCard = "CREDIT_CARD"
	BillingMethodPix        = "PIX"
	BillingMethodUndefined  = "UNDEFINED"
)

const (
	BillingCycleMonthly      = "MONTHLY"
	BillingCycleQuarterly    = "QUARTERLY"
	BillingCycleSemiannually = "SEMIANNUALLY"
	BillingCycleYearly       = "YEARLY"
)

const (
	BillingPaymentStatusPending        = "PENDING"
	BillingPaymentStatusReceived       = "RECEIVED"
	BillingPaymentStatusConfirmed      = "CONFIRMED"
	BillingPaymentStatusReceivedInCash = "RECEIVED_IN_CASH"
	BillingPaymentStatusOverdue        = "OVERDUE"
)

const (
	BillingEventPaymentConfirmed       = "PAYMENT_CONFIRMED"
	BillingEventPaymentReceived        = "PAYMENT_RECEIVED"
	BillingEventSubscriptionDeleted    = "SUBSCRIPTION_DELETED"
	BillingEventSubscriptionInactivate = "SUBSCRIPTION_INACTIVATED"
)

const (
	PaymentEventQueueName           = "billing_payment_events"
	PaymentEventDeadLetterQueueName = "billing_payment_events_dlq"
	PaymentWorkerLockKey            = "payments:reconciliation:leader"
	OnboardingLockKeyFormat         = "onboarding:%s"
)
