package constvars

const (
	ProviderMedical  = "medical network"
	ProviderBilling  = "billing provider"
	ProviderIdentity = "identity provider"
)

// Headers expected by the medical network API.
const (
	MedicalHeaderClientID    = "clientId"
	MedicalMIMEApplication   = "application/vnd.rapidoc.tema-v2+json"
	MedicalSpecialtyCacheKey = "medical:specialties"
)

const (
	MedicalPathBeneficiaries      = "/beneficiaries"
	MedicalPathSpecialties        = "/specialties"
	MedicalPathAppointments       = "/appointments"
	MedicalPathAvailability       = "/appointments/availability"
	MedicalPathPlans              = "/plans"
	MedicalPathReferralsFormat    = "/beneficiaries/%s/medical-referrals"
	MedicalPathImmediateFormat    = "/beneficiaries/%s/request-appointment"
	MedicalPathImmediateReqFormat = "/beneficiaries/%s/request-appointment/%s"
	MedicalPathBeneficiaryAppts   = "/beneficiaries/%s/appointments"
)

const (
	PaymentTypeSubscription = "S"
	PaymentTypeSingle       = "A"
	PaymentTypeWildcard     = "L"
)

const (
	ReferralStatusPending        = "PENDING"
	ReferralStatusActive         = "ACTIVE"
	ReferralStatusUsed           = "USED"
	ReferralStatusExpired        = "EXPIRED"
	ReferralStatusCancelled      = "CANCELLED"
	ReferralStatusNonSchedulable = "NON_SCHEDULABLE"
)

const (
	AppointmentStatusScheduled  = "SCHEDULED"
	AppointmentStatusUnfinished = "UNFINISHED"
	AppointmentStatusCompleted  = "COMPLETED"
	AppointmentStatusCancelled  = "CANCELLED"
	AppointmentStatusMissed     = "MISSED"
)

// ServiceTypeCapabilityOrder is the canonical order of capability letters in a beneficiary service type.
const ServiceTypeCapabilityOrder = "GSPN"
