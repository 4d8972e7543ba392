package utils

import (
	"regexp"
	"strings"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/dto/requests"
)

var nonDigitRegex = regexp.MustCompile(constvars.RegexNonDigit)

// DigitsOnly strips punctuation from documents, phones and zip codes.
func DigitsOnly(input string) string {
	return nonDigitRegex.ReplaceAllString(input, "")
}

func SanitizeOnboardingRequest(input *requests.Onboarding) {
	input.Name = strings.TrimSpace(input.Name)
	input.NationalID = DigitsOnly(input.NationalID)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = DigitsOnly(input.Phone)
	input.BirthDate = strings.TrimSpace(input.BirthDate)
	input.PlanID = strings.TrimSpace(input.PlanID)
	input.BillingMethod = strings.ToUpper(strings.TrimSpace(input.BillingMethod))
	input.Address.ZipCode = DigitsOnly(input.Address.ZipCode)
	input.Address.State = strings.ToUpper(strings.TrimSpace(input.Address.State))
	input.Address.City = strings.TrimSpace(input.Address.City)
	input.Address.Street = strings.TrimSpace(input.Address.Street)
	input.Address.Number = strings.TrimSpace(input.Address.Number)
	input.Address.District = strings.TrimSpace(input.Address.District)
	input.Address.Complement = strings.TrimSpace(input.Address.Complement)
}

func SanitizeCreateAppointmentRequest(input *requests.CreateAppointment) {
	input.NationalID = DigitsOnly(input.NationalID)
	input.Date = strings.TrimSpace(input.Date)
	input.From = strings.TrimSpace(input.From)
	input.To = strings.TrimSpace(input.To)
	input.Time = strings.TrimSpace(input.Time)
	input.SpecialtyID = strings.TrimSpace(input.SpecialtyID)
	input.Notes = strings.TrimSpace(input.Notes)
}

func SanitizeCreatePlanRequest(input *requests.CreatePlan) {
	input.Name = strings.TrimSpace(input.Name)
	input.Cycle = strings.ToUpper(strings.TrimSpace(input.Cycle))
	input.MedicalPlanUUID = strings.TrimSpace(input.MedicalPlanUUID)
	input.PaymentType = strings.ToUpper(strings.TrimSpace(input.PaymentType))
	for i, specialty := range input.Specialties {
		input.Specialties[i] = strings.TrimSpace(specialty)
	}
}
