package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustmentParameters_Validate(t *testing.T) {
	valid := []AdjustmentParameters{
		{},
		{TemperatureDeltaC: -5, RainfallPctChange: -100},
		{TemperatureDeltaC: 5, RainfallPctChange: 100},
		{TemperatureDeltaC: 1.3, RainfallPctChange: 17},
	}
	for _, p := range valid {
		assert.NoError(t, p.Validate(), "%+v", p)
	}

	invalid := []struct {
		params AdjustmentParameters
		name   string
	}{
		{params: AdjustmentParameters{TemperatureDeltaC: 5.01}, name: "temperature_delta_c"},
		{params: AdjustmentParameters{TemperatureDeltaC: -6}, name: "temperature_delta_c"},
		{params: AdjustmentParameters{RainfallPctChange: -101}, name: "rainfall_pct_change"},
		{params: AdjustmentParameters{RainfallPctChange: 250}, name: "rainfall_pct_change"},
		{params: AdjustmentParameters{TemperatureDeltaC: math.NaN()}, name: "temperature_delta_c"},
		{params: AdjustmentParameters{RainfallPctChange: math.Inf(-1)}, name: "rainfall_pct_change"},
	}
	for _, tc := range invalid {
		err := tc.params.Validate()
		require.Error(t, err, "%+v", tc.params)
		assert.True(t, IsInvalidParameter(err))

		var ipe *InvalidParameterError
		require.True(t, errors.As(err, &ipe))
		assert.Equal(t, tc.name, ipe.Name)
	}
}

func TestParameterSpecs(t *testing.T) {
	specs := ParameterSpecs()
	require.Len(t, specs, 2)

	assert.Equal(t, "temperature_delta_c", specs[0].Name)
	assert.Equal(t, -5.0, specs[0].Min)
	assert.Equal(t, 5.0, specs[0].Max)
	assert.Equal(t, 0.5, specs[0].Step)

	assert.Equal(t, "rainfall_pct_change", specs[1].Name)
	assert.Equal(t, -100.0, specs[1].Min)
	assert.Equal(t, 100.0, specs[1].Max)
	assert.Equal(t, 5.0, specs[1].Step)
}

func TestInvalidParameterError_Message(t *testing.T) {
	err := &InvalidParameterError{Name: "rainfall_pct_change", Value: 150, Min: -100, Max: 100}
	assert.Equal(t, "invalid rainfall_pct_change: 150 outside [-100, 100]", err.Error())

	wrapped := errors.Join(errors.New("context"), err)
	assert.True(t, IsInvalidParameter(wrapped))
	assert.False(t, IsInvalidParameter(ErrLocationNotFound))
}
