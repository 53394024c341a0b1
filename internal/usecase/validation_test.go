package usecase

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/GoArmGo/FoodDiary/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	cases := map[string]float64{
		`95`:     95,
		`"95"`:   95,
		`"0.5"`:  0.5,
		`null`:   0,
		`""`:     0,
		`120.25`: 120.25,
	}
	for in, want := range cases {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(in), &a), in)
		assert.Equal(t, want, float64(a), in)
	}

	var a Amount
	assert.Error(t, json.Unmarshal([]byte(`"lots"`), &a))
	assert.Error(t, json.Unmarshal([]byte(`true`), &a))

	for _, in := range []string{`"Inf"`, `"Infinity"`, `"+inf"`, `"-Inf"`, `"NaN"`, `1e400`} {
		assert.Error(t, json.Unmarshal([]byte(in), &a), in)
	}
}

func TestFoodInput_Validation(t *testing.T) {
	valid := FoodInput{
		Name:        "apple",
		Quantity:    1,
		ServingSize: "1",
		ServingUnit: "piece",
		Calories:    95,
		TimeOfDay:   "morning",
	}
	require.NoError(t, valid.validate())

	cases := []struct {
		name   string
		mutate func(*FoodInput)
		msg    string
	}{
		{"name", func(f *FoodInput) { f.Name = "" }, "name is required"},
		{"quantity", func(f *FoodInput) { f.Quantity = 0 }, "quantity is required"},
		{"negative quantity", func(f *FoodInput) { f.Quantity = -1 }, "quantity must be a positive number"},
		{"serving size", func(f *FoodInput) { f.ServingSize = "" }, "serving size is required"},
		{"serving unit", func(f *FoodInput) { f.ServingUnit = "" }, "serving unit is required"},
		{"calories", func(f *FoodInput) { f.Calories = 0 }, "calories is required"},
		{"time of day", func(f *FoodInput) { f.TimeOfDay = "" }, "time of day is required"},
		{"evening", func(f *FoodInput) { f.TimeOfDay = "evening" }, timeOfDayMsg},
		{"infinite calories", func(f *FoodInput) { f.Calories = Amount(math.Inf(1)) }, "calories must be a finite number"},
		{"nan quantity", func(f *FoodInput) { f.Quantity = Amount(math.NaN()) }, "quantity must be a finite number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			err := in.validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			msg, ok := domain.Message(err)
			require.True(t, ok)
			assert.Equal(t, tc.msg, msg)
		})
	}
}
