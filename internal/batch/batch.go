package batch

import (
	"encoding/base64"
	"fmt"
	"time"
)

// NormalizedFile is the canonical in-memory representation of an uploaded
// receipt file: base64 payload plus the metadata needed to identify it and
// ship it to the recognition and persistence boundaries.
type NormalizedFile struct {
	Name      string `json:"name"`
	MimeType  string `json:"mime_type"`
	Payload   string `json:"payload"` // base64-encoded file bytes
	SizeBytes int    `json:"size_bytes"`
}

// Bytes decodes the base64 payload back into raw file bytes.
func (f NormalizedFile) Bytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(f.Payload)
	if err != nil {
		return nil, fmt.Errorf("decoding file payload: %w", err)
	}
	return data, nil
}

// RecognitionResult holds the structured fields extracted from one receipt.
// Monetary fields are canonical currency strings ("$12.34") once formatted
// and the struct is never mutated afterwards.
type RecognitionResult struct {
	CustomerName string `json:"customer_name"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	CheckNumber  string `json:"check_number"`
	Amount       string `json:"amount"`
	Tip          string `json:"tip"`
	Total        string `json:"total"`
	PaymentType  string `json:"payment_type"`
	Signed       bool   `json:"signed"`
	ImageURL     string `json:"image_url,omitempty"`
}

// Batch is one processing run over a fixed set of input files. Results is
// always the same length as Files; result i corresponds to file i.
type Batch struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Simulated bool               `json:"simulated"`
	Files     []NormalizedFile   `json:"files"`
	Results   []RecognitionResult `json:"results"`
}

// Session identifies a signed-in user on whose behalf files are persisted.
// A nil *Session means no user is signed in.
type Session struct {
	UserID  string `json:"user_id"`
	VenueID string `json:"venue_id,omitempty"`
}

// IDGenerator generates unique IDs for batches
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}
