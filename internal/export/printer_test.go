package export

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FormatJob", func() {
	var job Job

	BeforeEach(func() {
		job = FormatJob(sampleResults[0])
	})

	It("requests a paper cut", func() {
		Expect(job.Cut).To(BeTrue())
	})

	It("renders every receipt field", func() {
		text := strings.Join(job.Lines, "\n")
		Expect(text).To(ContainSubstring("Jane Smith"))
		Expect(text).To(ContainSubstring("$25.50"))
		Expect(text).To(ContainSubstring("$5.00"))
		Expect(text).To(ContainSubstring("$30.50"))
		Expect(text).To(ContainSubstring("Visa"))
		Expect(text).To(ContainSubstring("Yes"))
	})

	It("right-aligns values within the print width", func() {
		for _, line := range job.Lines {
			if strings.HasPrefix(line, "Customer") || strings.HasPrefix(line, "Amount") {
				Expect(line).To(HaveLen(32))
			}
		}
	})

	It("renders an unsigned receipt as No", func() {
		unsigned := FormatJob(sampleResults[1])
		Expect(strings.Join(unsigned.Lines, "\n")).To(ContainSubstring("No"))
	})
})

var _ = Describe("LogPrinter", func() {
	It("accepts every job", func() {
		outcome, err := LogPrinter{}.Print(context.Background(), FormatJob(sampleResults[0]))
		Expect(err).NotTo(HaveOccurred())
		Expect(outcome.Success).To(BeTrue())
		Expect(outcome.Message).NotTo(BeEmpty())
	})
})
