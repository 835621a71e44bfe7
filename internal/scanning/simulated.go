package scanning

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

var (
	simulatedFirstNames = []string{
		"James", "Maria", "Robert", "Linda", "Michael", "Sarah",
		"David", "Jennifer", "Carlos", "Emily", "Kevin", "Dana",
	}
	simulatedLastNames = []string{
		"Smith", "Garcia", "Johnson", "Lee", "Brown", "Martinez",
		"Wilson", "Nguyen", "Davis", "Walker", "Hall", "Young",
	}
	simulatedPaymentTypes = []string{"Visa", "Mastercard", "Amex", "Discover", "Cash"}
)

// Tip percentage band for simulated receipts, in whole percent.
const (
	simulatedTipMinPct = 15
	simulatedTipMaxPct = 25
)

// Simulated generates plausible placeholder receipt data without any network
// call. It is used when live recognition is explicitly skipped or fails.
// Generated amounts are internally consistent: total equals amount plus tip
// to the cent, and the tip falls in the 15-25% band.
type Simulated struct {
	mu    sync.Mutex
	rng   *rand.Rand
	clock func() time.Time
}

// NewSimulated creates a simulated recognizer seeded from the current time.
func NewSimulated() *Simulated {
	return NewSimulatedWithSeed(time.Now().UnixNano())
}

// NewSimulatedWithSeed creates a simulated recognizer with a fixed seed for
// reproducible output.
func NewSimulatedWithSeed(seed int64) *Simulated {
	return &Simulated{
		rng:   rand.New(rand.NewSource(seed)),
		clock: time.Now,
	}
}

// RecognizeBatch synthesizes one record per file. It never fails.
func (s *Simulated) RecognizeBatch(_ context.Context, files []File) ([]RawResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]RawResult, len(files))
	for i := range files {
		results[i] = s.generate()
	}
	return results, nil
}

func (s *Simulated) generate() RawResult {
	// Amounts in cents so total = amount + tip holds exactly.
	amountCents := 1500 + s.rng.Intn(18501)
	tipPct := simulatedTipMinPct + s.rng.Intn(simulatedTipMaxPct-simulatedTipMinPct+1)
	tipCents := int(math.Round(float64(amountCents) * float64(tipPct) / 100))
	totalCents := amountCents + tipCents

	now := s.clock()
	hour := 11 + s.rng.Intn(12)
	minute := s.rng.Intn(60)
	meridiem := "AM"
	displayHour := hour
	if hour >= 12 {
		meridiem = "PM"
		if hour > 12 {
			displayHour = hour - 12
		}
	}

	name := simulatedFirstNames[s.rng.Intn(len(simulatedFirstNames))] + " " +
		simulatedLastNames[s.rng.Intn(len(simulatedLastNames))]

	return RawResult{
		"customer_name": name,
		"date":          now.Format("01/02/2006"),
		"time":          fmt.Sprintf("%d:%02d %s", displayHour, minute, meridiem),
		"check_number":  fmt.Sprintf("%d", 1000+s.rng.Intn(9000)),
		"amount":        float64(amountCents) / 100,
		"tip":           float64(tipCents) / 100,
		"total":         float64(totalCents) / 100,
		"payment_type":  simulatedPaymentTypes[s.rng.Intn(len(simulatedPaymentTypes))],
		"signed":        s.rng.Intn(100) < 85,
	}
}

// Close is a no-op; the simulated recognizer holds no resources.
func (s *Simulated) Close() error {
	return nil
}
