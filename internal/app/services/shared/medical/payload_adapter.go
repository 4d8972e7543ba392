package medical

import (
	"strings"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"time"

	"github.com/tidwall/gjson"
)

// joinLinkKeys lists the fields the network has used for the consultation link, by priority.
var joinLinkKeys = []string{"joinUrl", "joinLink", "url", "link", "accessLink", "meetingUrl", "videoUrl", "roomUrl"}

// joinLinkScopes are searched in order; the first scope holding any key wins.
var joinLinkScopes = []string{"", "appointment", "detail"}

// envelopeKeys wrap the interesting object in some responses.
var envelopeKeys = []string{"data", "beneficiary", "appointment", "result"}

// payloadAdapter normalizes medical network payloads into domain models. Provider
// local dates and times are interpreted in loc.
type payloadAdapter struct {
	loc *time.Location
}

func newPayloadAdapter(loc *time.Location) *payloadAdapter {
	if loc == nil {
		loc = time.UTC
	}
	return &payloadAdapter{loc: loc}
}

// unwrap returns the first envelope member present, or the body itself.
func unwrap(body gjson.Result, keys ...string) gjson.Result {
	if len(keys) == 0 {
		keys = envelopeKeys
	}
	for _, key := range keys {
		if value := body.Get(key); value.Exists() && (value.IsObject() || value.IsArray()) {
			return value
		}
	}
	return body
}

// list returns the array elements of body, unwrapping a common envelope.
func list(body gjson.Result) []gjson.Result {
	if body.IsArray() {
		return body.Array()
	}
	for _, key := range []string{"data", "items", "results", "content"} {
		if value := body.Get(key); value.IsArray() {
			return value.Array()
		}
	}
	return nil
}

func firstString(value gjson.Result, paths ...string) string {
	for _, path := range paths {
		if s := strings.TrimSpace(value.Get(path).String()); s != "" {
			return s
		}
	}
	return ""
}

// ExtractJoinLink applies the join link key priority over the root object, then
// "appointment", then "detail".
func ExtractJoinLink(raw []byte) string {
	return extractJoinLink(gjson.ParseBytes(raw))
}

func extractJoinLink(value gjson.Result) string {
	for _, scope := range joinLinkScopes {
		target := value
		if scope != "" {
			target = value.Get(scope)
			if !target.IsObject() {
				continue
			}
		}
		for _, key := range joinLinkKeys {
			field := target.Get(key)
			if field.Type != gjson.String {
				continue
			}
			if link := strings.TrimSpace(field.String()); link != "" {
				return link
			}
		}
	}
	return ""
}

func (a *payloadAdapter) beneficiary(raw []byte) *models.Beneficiary {
	value := unwrap(gjson.ParseBytes(raw))
	if value.IsArray() {
		items := value.Array()
		if len(items) == 0 {
			return nil
		}
		value = items[0]
	}

	beneficiary := &models.Beneficiary{
		UUID:        firstString(value, "uuid", "id"),
		Name:        value.Get("name").String(),
		NationalID:  value.Get("cpf").String(),
		BirthDate:   firstString(value, "birthday", "birthDate"),
		Email:       value.Get("email").String(),
		Phone:       value.Get("phone").String(),
		ServiceType: value.Get("serviceType").String(),
		IsActive:    !value.Get("isActive").Exists() || value.Get("isActive").Bool(),
	}

	for _, item := range value.Get("plans").Array() {
		plan := item.Get("plan")
		if !plan.IsObject() {
			plan = item
		}
		beneficiary.Plans = append(beneficiary.Plans, models.BeneficiaryPlan{
			MedicalPlanUUID: firstString(plan, "uuid", "id"),
			Name:            plan.Get("name").String(),
			ServiceType:     firstString(plan, "serviceType"),
			PaymentType:     firstString(item, "paymentType", "plan.paymentType"),
		})
	}
	return beneficiary
}

func (a *payloadAdapter) medicalPlan(raw []byte) *models.MedicalPlan {
	value := unwrap(gjson.ParseBytes(raw), "data", "plan")
	return &models.MedicalPlan{
		UUID:        firstString(value, "uuid", "id"),
		Name:        value.Get("name").String(),
		ServiceType: value.Get("serviceType").String(),
		PaymentType: value.Get("paymentType").String(),
	}
}

func (a *payloadAdapter) specialties(raw []byte) []models.Specialty {
	items := list(gjson.ParseBytes(raw))
	specialties := make([]models.Specialty, 0, len(items))
	for _, item := range items {
		uuid := firstString(item, "uuid", "id")
		if uuid == "" {
			continue
		}
		specialties = append(specialties, models.Specialty{
			UUID: uuid,
			Name: firstString(item, "name", "description"),
		})
	}
	return specialties
}

func (a *payloadAdapter) referrals(raw []byte) []models.Referral {
	items := list(gjson.ParseBytes(raw))
	referrals := make([]models.Referral, 0, len(items))
	for _, item := range items {
		referrals = append(referrals, models.Referral{
			UUID:            firstString(item, "uuid", "id"),
			SpecialtyUUID:   firstString(item, "specialty.uuid", "specialtyUuid"),
			SpecialtyName:   firstString(item, "specialty.name", "specialtyName"),
			Status:          strings.ToUpper(item.Get("status").String()),
			AppointmentUUID: firstString(item, "appointment.uuid", "appointmentUuid"),
			CreatedAt:       a.parseTimestamp(firstString(item, "createdAt", "creationDate")),
			ExpiresAt:       a.parseTimestamp(firstString(item, "expiresAt", "expirationDate", "validUntil")),
		})
	}
	return referrals
}

func (a *payloadAdapter) appointment(raw []byte) *models.Appointment {
	value := gjson.ParseBytes(raw)
	appointment := a.appointmentFrom(unwrap(value, "data", "appointment"))
	if link := extractJoinLink(value); link != "" {
		appointment.JoinLink = link
	}
	return appointment
}

func (a *payloadAdapter) appointments(raw []byte) []models.Appointment {
	items := list(gjson.ParseBytes(raw))
	appointments := make([]models.Appointment, 0, len(items))
	for _, item := range items {
		appointments = append(appointments, *a.appointmentFrom(item))
	}
	return appointments
}

func (a *payloadAdapter) appointmentFrom(value gjson.Result) *models.Appointment {
	appointment := &models.Appointment{
		UUID:             firstString(value, "uuid", "id"),
		BeneficiaryUUID:  firstString(value, "beneficiary.uuid", "beneficiaryUuid"),
		SpecialtyUUID:    firstString(value, "specialty.uuid", "specialtyUuid"),
		SpecialtyName:    firstString(value, "specialty.name", "specialtyName"),
		ReferralUUID:     firstString(value, "beneficiaryMedicalReferralUuid", "medicalReferral.uuid", "referralUuid"),
		ProfessionalName: firstString(value, "professional.name", "professionalName"),
		Status:           strings.ToUpper(value.Get("status").String()),
		JoinLink:         extractJoinLink(value),
		Notes:            value.Get("notes").String(),
	}

	date := firstString(value, "date", "appointmentDate")
	if date != "" {
		appointment.Start = a.parseDateTime(date, firstString(value, "from", "startTime"))
		appointment.End = a.parseDateTime(date, firstString(value, "to", "endTime"))
	} else {
		appointment.Start = a.parseTimestamp(firstString(value, "start", "startDate"))
		appointment.End = a.parseTimestamp(firstString(value, "end", "endDate"))
	}
	if appointment.Status == "" {
		appointment.Status = constvars.AppointmentStatusScheduled
	}
	return appointment
}

func (a *payloadAdapter) availability(raw []byte, specialtyUUID string) []models.AvailabilitySlot {
	items := list(gjson.ParseBytes(raw))
	slots := make([]models.AvailabilitySlot, 0, len(items))
	for _, item := range items {
		slot := models.AvailabilitySlot{
			UUID:             firstString(item, "uuid", "id"),
			SpecialtyUUID:    firstString(item, "specialty.uuid", "specialtyUuid"),
			Date:             item.Get("date").String(),
			From:             firstString(item, "from", "startTime"),
			To:               firstString(item, "to", "endTime"),
			ProfessionalName: firstString(item, "professional.name", "professionalName"),
		}
		if slot.SpecialtyUUID == "" {
			slot.SpecialtyUUID = specialtyUUID
		}
		slots = append(slots, slot)
	}
	return slots
}

func (a *payloadAdapter) immediateRequest(raw []byte) *models.ProviderImmediateRequest {
	value := unwrap(gjson.ParseBytes(raw), "data", "request")
	request := &models.ProviderImmediateRequest{
		UUID:   firstString(value, "uuid", "id"),
		Status: strings.ToUpper(value.Get("status").String()),
	}

	embedded := value.Get("appointment")
	if embedded.IsObject() && firstString(embedded, "uuid", "id") != "" {
		request.Appointment = a.appointmentFrom(embedded)
		if link := extractJoinLink(value); link != "" {
			request.Appointment.JoinLink = link
		}
	}
	return request
}

// parseDateTime reads a dd/MM/yyyy (or yyyy-MM-dd) date and an HH:mm time in the provider zone.
func (a *payloadAdapter) parseDateTime(date, clock string) time.Time {
	if clock == "" {
		clock = "00:00"
	}
	if len(clock) > len(constvars.TimeFormatHourMin) {
		clock = clock[:len(constvars.TimeFormatHourMin)]
	}
	for _, layout := range []string{constvars.DateFormatProvider, constvars.DateFormatISO} {
		parsed, err := time.ParseInLocation(layout+" "+constvars.TimeFormatHourMin, date+" "+clock, a.loc)
		if err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// parseTimestamp accepts RFC 3339, zone-less ISO date times, or bare dates.
func (a *payloadAdapter) parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05", constvars.DateFormatISO, constvars.DateFormatProvider} {
		if parsed, err := time.ParseInLocation(layout, value, a.loc); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
