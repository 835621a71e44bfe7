package batch

import (
	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("FormatResult", func() {
	ginkgo.When("monetary fields arrive as numbers", func() {
		ginkgo.It("formats whole dollars with two decimals", func() {
			result := FormatResult(map[string]any{"amount": 42.0})
			Expect(result.Amount).To(Equal("$42.00"))
		})

		ginkgo.It("rounds to whole cents", func() {
			result := FormatResult(map[string]any{"amount": 19.996, "tip": 3.004})
			Expect(result.Amount).To(Equal("$20.00"))
			Expect(result.Tip).To(Equal("$3.00"))
		})
	})

	ginkgo.When("monetary fields arrive as strings", func() {
		ginkgo.It("parses a dollar-prefixed string", func() {
			result := FormatResult(map[string]any{"tip": "$5.5"})
			Expect(result.Tip).To(Equal("$5.50"))
		})

		ginkgo.It("strips thousands separators", func() {
			result := FormatResult(map[string]any{"total": "1,234.5"})
			Expect(result.Total).To(Equal("$1234.50"))
		})

		ginkgo.It("defaults an unparseable string to zero", func() {
			result := FormatResult(map[string]any{"amount": "unknown"})
			Expect(result.Amount).To(Equal("$0.00"))
		})
	})

	ginkgo.When("fields are missing", func() {
		var result RecognitionResult

		ginkgo.BeforeEach(func() {
			result = FormatResult(map[string]any{})
		})

		ginkgo.It("defaults monetary fields to $0.00", func() {
			Expect(result.Amount).To(Equal("$0.00"))
			Expect(result.Tip).To(Equal("$0.00"))
			Expect(result.Total).To(Equal("$0.00"))
		})

		ginkgo.It("defaults text fields to N/A", func() {
			Expect(result.CustomerName).To(Equal("N/A"))
			Expect(result.Date).To(Equal("N/A"))
			Expect(result.Time).To(Equal("N/A"))
			Expect(result.CheckNumber).To(Equal("N/A"))
			Expect(result.PaymentType).To(Equal("N/A"))
		})

		ginkgo.It("defaults signed to false", func() {
			Expect(result.Signed).To(BeFalse())
		})
	})

	ginkgo.When("text fields arrive in odd shapes", func() {
		ginkgo.It("trims whitespace", func() {
			result := FormatResult(map[string]any{"customer_name": "  John Doe  "})
			Expect(result.CustomerName).To(Equal("John Doe"))
		})

		ginkgo.It("treats a blank string as missing", func() {
			result := FormatResult(map[string]any{"date": "   "})
			Expect(result.Date).To(Equal("N/A"))
		})

		ginkgo.It("accepts numeric check numbers", func() {
			result := FormatResult(map[string]any{"check_number": 1042.0})
			Expect(result.CheckNumber).To(Equal("1042"))
		})
	})

	ginkgo.Describe("signed coercion", func() {
		ginkgo.It("accepts booleans", func() {
			Expect(FormatResult(map[string]any{"signed": true}).Signed).To(BeTrue())
		})

		ginkgo.It("accepts affirmative strings", func() {
			Expect(FormatResult(map[string]any{"signed": "yes"}).Signed).To(BeTrue())
			Expect(FormatResult(map[string]any{"signed": "Signed"}).Signed).To(BeTrue())
			Expect(FormatResult(map[string]any{"signed": "no"}).Signed).To(BeFalse())
		})

		ginkgo.It("accepts numeric flags", func() {
			Expect(FormatResult(map[string]any{"signed": 1.0}).Signed).To(BeTrue())
			Expect(FormatResult(map[string]any{"signed": 0.0}).Signed).To(BeFalse())
		})
	})

	ginkgo.Describe("idempotence", func() {
		ginkgo.It("leaves an already-formatted record unchanged", func() {
			first := FormatResult(map[string]any{
				"customer_name": "Jane",
				"date":          "06/01/2025",
				"time":          "7:42 PM",
				"check_number":  "1042",
				"amount":        25.5,
				"tip":           "5",
				"total":         "$30.50",
				"payment_type":  "Mastercard",
				"signed":        "yes",
			})

			second := FormatResult(map[string]any{
				"customer_name": first.CustomerName,
				"date":          first.Date,
				"time":          first.Time,
				"check_number":  first.CheckNumber,
				"amount":        first.Amount,
				"tip":           first.Tip,
				"total":         first.Total,
				"payment_type":  first.PaymentType,
				"signed":        first.Signed,
			})

			Expect(second).To(Equal(first))
		})
	})
})
