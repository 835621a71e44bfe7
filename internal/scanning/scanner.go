package scanning

import (
	"context"
	"encoding/base64"
	"fmt"
)

// File is one normalized receipt file as carried across the recognition
// boundary: name, MIME type, and base64-encoded payload.
type File struct {
	Name     string
	MimeType string
	Payload  string // base64-encoded file bytes
}

// RawResult is one loosely typed record returned by a recognition source.
// Field values may be strings, numbers, or missing; the result formatter
// owns all defaulting rules.
type RawResult map[string]any

// Recognizer extracts structured receipt data from a batch of files.
// Implementations must return exactly one result per input file, preserving
// input order.
type Recognizer interface {
	RecognizeBatch(ctx context.Context, files []File) ([]RawResult, error)
	// Close releases any resources held by the recognizer.
	Close() error
}

func decodePayload(f File) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(f.Payload)
	if err != nil {
		return nil, fmt.Errorf("decoding payload for %s: %w", f.Name, err)
	}
	return data, nil
}

// batchScanPrompt is the extraction prompt sent alongside the receipt images.
const batchScanPrompt = `You are analyzing %d restaurant receipt images. For each image, in the order the images appear, carefully read all printed and handwritten text and extract:

1. **Customer Name**: the cardholder or customer name printed on the receipt, if any.
2. **Date** and **Time**: the transaction date (MM/DD/YYYY) and time.
3. **Check Number**: the check, ticket, or order number.
4. **Amount**: the pre-tip amount (subtotal plus tax), as a number.
5. **Tip**: the handwritten or printed tip amount, as a number.
6. **Total**: the final total including tip, as a number.
7. **Payment Type**: the card brand or payment method (e.g. Visa, Mastercard, Amex, Cash).
8. **Signed**: whether the signature line is signed (true/false).

Return ONLY a valid JSON array with exactly %d objects, one per image, in this exact shape:
[{"customer_name": "", "date": "", "time": "", "check_number": "", "amount": 0.00, "tip": 0.00, "total": 0.00, "payment_type": "", "signed": false}]

Important:
- Keep the array in the same order as the images
- Amounts must be numbers (not strings)
- If you cannot find a field, use null for that field
- Do not include any text before or after the JSON
- Do not use markdown code blocks`
