package batch

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatResult converts a loosely shaped recognition record into a canonical
// RecognitionResult. Monetary fields may arrive as numbers, "$"-prefixed
// strings, plain numeric strings, or be missing entirely; they always come
// out as "$" plus two decimals. Text fields default to "N/A". The function
// is idempotent: formatting an already-formatted record is a no-op.
func FormatResult(raw map[string]any) RecognitionResult {
	return RecognitionResult{
		CustomerName: textField(raw["customer_name"]),
		Date:         textField(raw["date"]),
		Time:         textField(raw["time"]),
		CheckNumber:  textField(raw["check_number"]),
		Amount:       moneyField(raw["amount"]),
		Tip:          moneyField(raw["tip"]),
		Total:        moneyField(raw["total"]),
		PaymentType:  textField(raw["payment_type"]),
		Signed:       boolField(raw["signed"]),
	}
}

func textField(v any) string {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return "N/A"
		}
		return s
	case float64:
		// Recognition sources occasionally return check numbers as numbers.
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return "N/A"
	}
}

func moneyField(v any) string {
	var dollars float64
	switch t := v.(type) {
	case float64:
		dollars = t
	case int:
		dollars = float64(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			dollars = f
		}
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			dollars = f
		}
	}

	// Round to whole cents so repeated formatting is a fixed point.
	cents := math.Round(dollars * 100)
	return fmt.Sprintf("$%.2f", cents/100)
}

func boolField(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "signed", "1":
			return true
		}
	case float64:
		return t != 0
	}
	return false
}
