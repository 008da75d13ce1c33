package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"sales-forecast-web/pkg/models"
)

// dateLayouts は受け付ける日付表記です。上から順に試します。
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"01-02-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// NormalizeDate reformats a date to the canonical YYYY-MM-DD form.
// Timestamps carrying a zone are converted to UTC first; a result outside
// years 0000-9999 is rejected.
func NormalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		t = t.UTC()
		// YYYY-MM-DD に収まらない年は送信できない
		if t.Year() < 0 || t.Year() > 9999 {
			break
		}
		return t.Format("2006-01-02"), nil
	}
	return "", fieldError("date", "Invalid date: %q", value)
}

// MissingRequiredFields は未入力の必須項目名を返します。
func MissingRequiredFields(input models.FormInput) []string {
	required := []struct {
		name  string
		value string
	}{
		{"date", input.Date},
		{"family", input.Family},
		{"state", input.State},
		{"city", input.City},
		{"type_x", input.StoreType},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// BuildPredictionRequest converts raw form values into the request body.
// Required fields must already be present; see MissingRequiredFields.
func BuildPredictionRequest(input models.FormInput) (models.PredictionRequest, error) {
	date, err := NormalizeDate(input.Date)
	if err != nil {
		return models.PredictionRequest{}, err
	}

	req := models.PredictionRequest{
		Date:      date,
		Family:    input.Family,
		State:     input.State,
		City:      input.City,
		StoreType: input.StoreType,
		DayType:   input.DayType,
	}
	if req.DayType == "" {
		req.DayType = models.DefaultDayType
	}

	if req.OnPromotion, err = parseWhole("onpromotion", input.OnPromotion, 0, math.MaxInt32); err != nil {
		return models.PredictionRequest{}, err
	}
	if req.OilPrice, err = parseNumber("dcoilwtico", input.OilPrice); err != nil {
		return models.PredictionRequest{}, err
	}
	if req.OilPrice < 0 {
		return models.PredictionRequest{}, fieldError("dcoilwtico", "dcoilwtico must be 0 or greater")
	}
	if req.Transactions, err = parseWhole("transactions", input.Transactions, 0, math.MaxInt32); err != nil {
		return models.PredictionRequest{}, err
	}
	if req.StoreNumber, err = parseWhole("store_nbr", input.StoreNumber, 1, math.MaxInt32); err != nil {
		return models.PredictionRequest{}, err
	}
	if req.Cluster, err = parseWhole("cluster", input.Cluster, 1, 20); err != nil {
		return models.PredictionRequest{}, err
	}
	return req, nil
}

// parseNumber coerces a form value to a number; an empty value becomes 0.
func parseNumber(field, value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fieldError(field, "%s must be a number", field)
	}
	return n, nil
}

func parseWhole(field, value string, min, max int) (int, error) {
	n, err := parseNumber(field, value)
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) {
		return 0, fieldError(field, "%s must be a whole number", field)
	}
	if n < float64(min) || n > float64(max) {
		if max == math.MaxInt32 {
			return 0, fieldError(field, "%s must be %d or greater", field, min)
		}
		return 0, fieldError(field, "%s must be between %d and %d", field, min, max)
	}
	return int(n), nil
}
