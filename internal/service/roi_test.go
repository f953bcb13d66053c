package service

import (
	"testing"

	"github.com/shaymaabd/AMPA/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateROI_Defaults(t *testing.T) {
	res, err := CalculateROI(ROIInput{ContractValue: 1_000_000, HourlyCost: 40})
	require.NoError(t, err)

	aiHours := 7.3 / 52
	assert.InDelta(t, 250_000, res.CostSavings, 1e-9)
	assert.InDelta(t, 25, res.MonetaryROI, 1e-9)
	assert.InDelta(t, aiHours, res.AIHours, 1e-9)
	assert.InDelta(t, aiHours*60, res.AIMinutes, 1e-9)
	assert.InDelta(t, (7.3-aiHours)*264, res.AnnualHoursSaved, 1e-9)
	assert.InDelta(t, 5200, res.EfficiencyPercent, 1e-6)
	assert.InDelta(t, (7.3-aiHours)*264*40, res.LaborSavings, 1e-6)
}

func TestCalculateROI_Custom(t *testing.T) {
	res, err := CalculateROI(ROIInput{
		ContractValue: 200_000,
		SavingsRate:   0.1,
		ManualHours:   10,
		SpeedupFactor: 5,
		EventsPerYear: 12,
	})
	require.NoError(t, err)

	assert.InDelta(t, 20_000, res.CostSavings, 1e-9)
	assert.InDelta(t, 10, res.MonetaryROI, 1e-9)
	assert.InDelta(t, 2, res.AIHours, 1e-9)
	assert.InDelta(t, 120, res.AIMinutes, 1e-9)
	assert.InDelta(t, 96, res.AnnualHoursSaved, 1e-9)
	assert.InDelta(t, 500, res.EfficiencyPercent, 1e-9)
	assert.Zero(t, res.LaborSavings)
}

func TestCalculateROI_ZeroContract(t *testing.T) {
	res, err := CalculateROI(ROIInput{})
	require.NoError(t, err)
	assert.Zero(t, res.CostSavings)
	assert.Zero(t, res.MonetaryROI)
}

func TestCalculateROI_Validation(t *testing.T) {
	cases := []ROIInput{
		{ContractValue: -1},
		{ContractValue: 2e9},
		{SavingsRate: 1.5},
		{ManualHours: 49},
		{EventsPerYear: 1001},
		{HourlyCost: -5},
	}
	for _, in := range cases {
		_, err := CalculateROI(in)
		assert.ErrorIs(t, err, domain.ErrValidation, "%+v", in)
	}
}
