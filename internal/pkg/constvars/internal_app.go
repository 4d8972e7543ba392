package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_UID_KEY                  ContextKey = "uid"
	CONTEXT_ROLES_KEY                ContextKey = "roles"
	CONTEXT_API_KEY_AUTH             ContextKey = "api_key_auth"
)

const (
	RoleSuperadmin = "superadmin"
	RoleSubscriber = "subscriber"
	RoleGuest      = "guest"

	APIKeySuperadminUID = "api-key-superadmin"
)

const (
	URLParamNationalID         = "nationalId"
	URLParamAppointmentUUID    = "uuid"
	URLParamImmediateRequestID = "id"

	URLQueryParamSpecialtyID = "specialtyId"
	URLQueryParamDateInitial = "dateInitial"
	URLQueryParamDateFinal   = "dateFinal"
	URLQueryParamToken       = "token"
	URLQueryParamNationalID  = "cpf"
)

const (
	MongoCollectionSubscribers       = "subscribers"
	MongoCollectionSubscriptions     = "subscriptions"
	MongoCollectionPlans             = "plans"
	MongoCollectionOnboardingSagas   = "onboarding_sagas"
	MongoCollectionImmediateRequests = "immediate_requests"
)

const (
	DateFormatISO      = "2006-01-02"
	DateFormatProvider = "02/01/2006"
	TimeFormatHourMin  = "15:04"
)
