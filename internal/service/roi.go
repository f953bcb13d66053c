package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shaymaabd/AMPA/internal/domain"
)

const (
	DefaultSavingsRate   = 0.25
	DefaultManualHours   = 7.3
	DefaultSpeedupFactor = 52.0
	DefaultEventsPerYear = 264
)

var validate = validator.New()

// ROIInput parameterizes the calculator. Zero values for the rate, hours,
// speedup and events fields take the defaults above.
type ROIInput struct {
	ContractValue float64 `json:"contract_value" validate:"gte=0,lte=1000000000"`
	SavingsRate   float64 `json:"savings_rate" validate:"gte=0,lte=1"`
	ManualHours   float64 `json:"manual_hours" validate:"gte=0,lte=48"`
	SpeedupFactor float64 `json:"speedup_factor" validate:"gte=0,lte=1000"`
	EventsPerYear int     `json:"events_per_year" validate:"gte=0,lte=1000"`
	HourlyCost    float64 `json:"hourly_cost,omitempty" validate:"gte=0"`
}

type ROIResult struct {
	CostSavings       float64 `json:"cost_savings"`
	MonetaryROI       float64 `json:"monetary_roi_percent"`
	AIHours           float64 `json:"ai_hours"`
	AIMinutes         float64 `json:"ai_minutes"`
	AnnualHoursSaved  float64 `json:"annual_hours_saved"`
	EfficiencyPercent float64 `json:"efficiency_percent"`
	LaborSavings      float64 `json:"labor_savings"`
}

func (in ROIInput) withDefaults() ROIInput {
	if in.SavingsRate == 0 {
		in.SavingsRate = DefaultSavingsRate
	}
	if in.ManualHours == 0 {
		in.ManualHours = DefaultManualHours
	}
	if in.SpeedupFactor == 0 {
		in.SpeedupFactor = DefaultSpeedupFactor
	}
	if in.EventsPerYear == 0 {
		in.EventsPerYear = DefaultEventsPerYear
	}
	return in
}

// CalculateROI estimates savings from running sourcing events through the
// assistant instead of by hand.
func CalculateROI(in ROIInput) (*ROIResult, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	in = in.withDefaults()

	res := &ROIResult{
		CostSavings: in.ContractValue * in.SavingsRate,
		AIHours:     in.ManualHours / in.SpeedupFactor,
	}
	if in.ContractValue > 0 {
		res.MonetaryROI = res.CostSavings / in.ContractValue * 100
	}
	res.AIMinutes = res.AIHours * 60
	res.AnnualHoursSaved = (in.ManualHours - res.AIHours) * float64(in.EventsPerYear)
	if res.AIHours > 0 {
		res.EfficiencyPercent = in.ManualHours / res.AIHours * 100
	}
	res.LaborSavings = res.AnnualHoursSaved * in.HourlyCost
	return res, nil
}
