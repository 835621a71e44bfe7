package export

import (
	"fmt"
	"sort"

	"github.com/tipenter/tipenter/internal/batch"
)

// Row is one receipt flattened into the field names a POS system's import
// format expects.
type Row map[string]string

// fieldMap maps canonical result fields to a POS system's column names.
type fieldMap struct {
	customerName string
	date         string
	time         string
	checkNumber  string
	amount       string
	tip          string
	total        string
	paymentType  string
}

// posSystems is static configuration: one field table per supported system.
var posSystems = map[string]fieldMap{
	"lightspeed": {
		customerName: "customer",
		date:         "transaction_date",
		time:         "transaction_time",
		checkNumber:  "receipt_id",
		amount:       "subtotal",
		tip:          "gratuity",
		total:        "total",
		paymentType:  "tender_type",
	},
	"toast": {
		customerName: "guest_name",
		date:         "business_date",
		time:         "order_time",
		checkNumber:  "check_no",
		amount:       "net_amount",
		tip:          "tip_amount",
		total:        "total_amount",
		paymentType:  "payment_method",
	},
	"square": {
		customerName: "customer_name",
		date:         "date",
		time:         "time",
		checkNumber:  "transaction_id",
		amount:       "gross_sales",
		tip:          "tip",
		total:        "collected",
		paymentType:  "card_brand",
	},
	"clover": {
		customerName: "customer",
		date:         "order_date",
		time:         "order_time",
		checkNumber:  "order_number",
		amount:       "amount",
		tip:          "tip_amount",
		total:        "total",
		paymentType:  "tender",
	},
}

// Systems returns the supported POS system identifiers, sorted.
func Systems() []string {
	names := make([]string, 0, len(posSystems))
	for name := range posSystems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Export maps an aggregated result list to the flat per-system rows. Result
// values pass through unchanged; only the field names differ per system.
func Export(results []batch.RecognitionResult, system string) ([]Row, error) {
	fields, ok := posSystems[system]
	if !ok {
		return nil, fmt.Errorf("unknown POS system: %q", system)
	}

	rows := make([]Row, len(results))
	for i, r := range results {
		rows[i] = Row{
			fields.customerName: r.CustomerName,
			fields.date:         r.Date,
			fields.time:         r.Time,
			fields.checkNumber:  r.CheckNumber,
			fields.amount:       r.Amount,
			fields.tip:          r.Tip,
			fields.total:        r.Total,
			fields.paymentType:  r.PaymentType,
		}
	}
	return rows, nil
}
