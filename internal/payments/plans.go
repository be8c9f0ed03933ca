package payments

import "becreative_backend/internal/models"

// Plan describes one subscription tier.
type Plan struct {
	Type          models.PlanType
	Name          string
	Credits       int
	PriceCents    int64
	StripePriceID string
}

var plans = map[models.PlanType]Plan{
	models.PlanTypeBasic: {
		Type:          models.PlanTypeBasic,
		Name:          "Basic",
		Credits:       5,
		PriceCents:    1999,
		StripePriceID: "price_basic_monthly",
	},
	models.PlanTypePremium: {
		Type:          models.PlanTypePremium,
		Name:          "Premium",
		Credits:       10,
		PriceCents:    3499,
		StripePriceID: "price_premium_monthly",
	},
	models.PlanTypeUnlimited: {
		Type:          models.PlanTypeUnlimited,
		Name:          "Unlimited",
		Credits:       20,
		PriceCents:    5999,
		StripePriceID: "price_unlimited_monthly",
	},
}

// GetPlan returns the plan for a tier, or false for unknown tiers.
func GetPlan(planType models.PlanType) (Plan, bool) {
	plan, ok := plans[planType]
	return plan, ok
}

// AllPlans returns the plan catalogue in tier order.
func AllPlans() []Plan {
	return []Plan{
		plans[models.PlanTypeBasic],
		plans[models.PlanTypePremium],
		plans[models.PlanTypeUnlimited],
	}
}
