package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"becreative_backend/internal/models"
)

// registerCustomRules installs domain value validators. Empty values pass;
// the 'required' tag handles those.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-payment-method", validatePaymentMethod)
	mustRegister("is-booking-status", validateBookingStatus)
	mustRegister("is-plan-type", validatePlanType)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.UserRole(value) {
	case models.UserRoleStudent, models.UserRoleInstructor, models.UserRoleAdmin:
		return true
	default:
		return false
	}
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.PaymentMethod(value) {
	case models.PaymentMethodCredits, models.PaymentMethodStripe:
		return true
	default:
		return false
	}
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.BookingStatus(value) {
	case models.BookingStatusPending, models.BookingStatusConfirmed,
		models.BookingStatusCancelled, models.BookingStatusCompleted:
		return true
	default:
		return false
	}
}

func validatePlanType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.PlanType(value) {
	case models.PlanTypeBasic, models.PlanTypePremium, models.PlanTypeUnlimited:
		return true
	default:
		return false
	}
}
