package services

import (
	"testing"

	"sales-forecast-web/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"2017-08-16", "2017-08-16"},
		{" 2017-08-16 ", "2017-08-16"},
		{"2017-08-16T10:30:00Z", "2017-08-16"},
		{"2017-08-16T23:30:00-05:00", "2017-08-17"},
		{"2017-08-16T10:30", "2017-08-16"},
		{"2017/08/16", "2017-08-16"},
		{"08/16/2017", "2017-08-16"},
		{"08-16-17", "2017-08-16"},
		{"Aug 16, 2017", "2017-08-16"},
		{"16 August 2017", "2017-08-16"},
		{"9999-12-31T23:00:00Z", "9999-12-31"},
		{"0001-01-01T02:00:00+01:00", "0001-01-01"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := NormalizeDate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
			assert.Len(t, got, 10)
		})
	}
}

func TestNormalizeDateInvalid(t *testing.T) {
	for _, input := range []string{"", "tomorrow", "2017-13-01", "2017-02-30", "9999-12-31T23:00:00-05:00"} {
		_, err := NormalizeDate(input)
		require.Error(t, err, input)
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), "Invalid date")
	}
}

func TestMissingRequiredFields(t *testing.T) {
	assert.Empty(t, MissingRequiredFields(validInput()))

	input := validInput()
	input.Family = ""
	input.City = "   "
	input.StoreType = ""
	assert.Equal(t, []string{"family", "city", "type_x"}, MissingRequiredFields(input))
}

func TestBuildPredictionRequest(t *testing.T) {
	input := validInput()
	input.OnPromotion = "12"
	input.OilPrice = "47.57"
	input.Transactions = "2111"
	input.StoreNumber = "44"
	input.Cluster = "5"
	input.DayType = "Holiday"

	req, err := BuildPredictionRequest(input)
	require.NoError(t, err)

	assert.Equal(t, "2017-08-16", req.Date)
	assert.Equal(t, "GROCERY I", req.Family)
	assert.Equal(t, "Pichincha", req.State)
	assert.Equal(t, "Quito", req.City)
	assert.Equal(t, "D", req.StoreType)
	assert.Equal(t, "Holiday", req.DayType)
	assert.Equal(t, 12, req.OnPromotion)
	assert.InDelta(t, 47.57, req.OilPrice, 1e-9)
	assert.Equal(t, 2111, req.Transactions)
	assert.Equal(t, 44, req.StoreNumber)
	assert.Equal(t, 5, req.Cluster)
}

func TestBuildPredictionRequestDefaults(t *testing.T) {
	input := validInput()
	input.DayType = ""
	input.OnPromotion = ""
	input.OilPrice = ""
	input.Transactions = ""

	req, err := BuildPredictionRequest(input)
	require.NoError(t, err)

	// 空の数値は0として送信する
	assert.Equal(t, "Regular Day", req.DayType)
	assert.Equal(t, 0, req.OnPromotion)
	assert.Equal(t, 0.0, req.OilPrice)
	assert.Equal(t, 0, req.Transactions)
}

func TestBuildPredictionRequestRejectsBadNumbers(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*models.FormInput)
		message string
	}{
		{"not a number", func(in *models.FormInput) { in.Transactions = "lots" }, "transactions must be a number"},
		{"fractional", func(in *models.FormInput) { in.OnPromotion = "1.5" }, "onpromotion must be a whole number"},
		{"negative promotion", func(in *models.FormInput) { in.OnPromotion = "-1" }, "onpromotion must be 0 or greater"},
		{"store zero", func(in *models.FormInput) { in.StoreNumber = "0" }, "store_nbr must be 1 or greater"},
		{"cluster too big", func(in *models.FormInput) { in.Cluster = "21" }, "cluster must be between 1 and 20"},
		{"negative oil", func(in *models.FormInput) { in.OilPrice = "-3" }, "dcoilwtico must be 0 or greater"},
		{"NaN oil", func(in *models.FormInput) { in.OilPrice = "NaN" }, "dcoilwtico must be a number"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)

			_, err := BuildPredictionRequest(input)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Equal(t, tc.message, err.Error())
		})
	}
}
