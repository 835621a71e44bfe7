package scanning

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// stubRecognizer is a mock live recognizer
type stubRecognizer struct {
	results   []RawResult
	err       error
	closeErr  error
	closed    bool
	callCount int
}

func (s *stubRecognizer) RecognizeBatch(_ context.Context, files []File) ([]RawResult, error) {
	s.callCount++
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func (s *stubRecognizer) Close() error {
	s.closed = true
	return s.closeErr
}

var _ = Describe("Fallback", func() {
	var (
		live     *stubRecognizer
		sim      *Simulated
		fallback *Fallback
		files    []File
		results  []RawResult
		err      error
	)

	BeforeEach(func() {
		live = &stubRecognizer{}
		sim = NewSimulatedWithSeed(7)
		files = simFiles(2)
	})

	JustBeforeEach(func() {
		fallback = NewFallback(live, sim, time.Second)
		results, err = fallback.RecognizeBatch(context.Background(), files)
	})

	When("the live recognizer succeeds", func() {
		BeforeEach(func() {
			live.results = []RawResult{
				{"customer_name": "Jane"},
				{"customer_name": "John"},
			}
		})

		It("passes the live results through untouched", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(Equal(live.results))
		})
	})

	When("the live recognizer fails", func() {
		BeforeEach(func() {
			live.err = errors.New("api unavailable")
		})

		It("degrades the whole batch to simulated data", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0]).To(HaveKey("amount"))
		})
	})

	When("the live recognizer returns the wrong result count", func() {
		BeforeEach(func() {
			live.results = []RawResult{{"customer_name": "only one"}}
		})

		It("degrades the whole batch to simulated data", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})
	})

	When("no live recognizer is configured", func() {
		BeforeEach(func() {
			live = nil
		})

		It("simulates every batch", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})
	})

	Describe("Close", func() {
		It("closes the underlying live recognizer", func() {
			f := NewFallback(live, sim, time.Second)
			Expect(f.Close()).To(Succeed())
			Expect(live.closed).To(BeTrue())
		})

		It("tolerates a nil live recognizer", func() {
			f := NewFallback(nil, sim, time.Second)
			Expect(f.Close()).To(Succeed())
		})
	})
})
