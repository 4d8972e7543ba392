package utils

import (
	"reflect"
	"regexp"
	"strings"
	"telemed-service/internal/pkg/constvars"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	cpfRegex  = regexp.MustCompile(constvars.RegexCPF)
	hhmmRegex = regexp.MustCompile(constvars.RegexTimeHHMM)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonTagName)
	validate.RegisterValidation("cpf", validateCPF)
	validate.RegisterValidation("iso_date", validateISODate)
	validate.RegisterValidation("br_date", validateBRDate)
	validate.RegisterValidation("hhmm", validateHourMinute)
	validate.RegisterValidation("payment_type", validatePaymentType)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func jsonTagName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

// validateCPF only checks the 11 digit shape, check digits are left to the billing provider.
func validateCPF(fl validator.FieldLevel) bool {
	return cpfRegex.MatchString(fl.Field().String())
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(constvars.DateFormatISO, fl.Field().String())
	return err == nil
}

func validateBRDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(constvars.DateFormatProvider, fl.Field().String())
	return err == nil
}

func validateHourMinute(fl validator.FieldLevel) bool {
	return hhmmRegex.MatchString(fl.Field().String())
}

func validatePaymentType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case constvars.PaymentTypeSubscription, constvars.PaymentTypeSingle, constvars.PaymentTypeWildcard:
		return true
	}
	return false
}
