package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/tipenter/tipenter/internal/batch"
)

// printWidth is the character width of an 80mm thermal printer line.
const printWidth = 32

// Job is a formatted print job: the lines to print, then an optional paper
// cut.
type Job struct {
	Lines []string `json:"lines"`
	Cut   bool     `json:"cut"`
}

// PrintOutcome reports the result of sending a job to a printer.
type PrintOutcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Printer sends a formatted job to a physical printer. The wire protocol is
// owned by the device SDK behind this interface.
type Printer interface {
	Print(ctx context.Context, job Job) (PrintOutcome, error)
}

// FormatJob renders one recognition result as a thermal print job.
func FormatJob(r batch.RecognitionResult) Job {
	lines := []string{
		center("TIP RECEIPT"),
		strings.Repeat("-", printWidth),
		labeled("Customer", r.CustomerName),
		labeled("Date", r.Date),
		labeled("Time", r.Time),
		labeled("Check #", r.CheckNumber),
		strings.Repeat("-", printWidth),
		labeled("Amount", r.Amount),
		labeled("Tip", r.Tip),
		labeled("Total", r.Total),
		strings.Repeat("-", printWidth),
		labeled("Payment", r.PaymentType),
		labeled("Signed", signedText(r.Signed)),
	}
	return Job{Lines: lines, Cut: true}
}

// labeled right-aligns a value against its label within the print width.
func labeled(label, value string) string {
	gap := printWidth - len(label) - len(value)
	if gap < 1 {
		gap = 1
	}
	return label + strings.Repeat(" ", gap) + value
}

func center(text string) string {
	if len(text) >= printWidth {
		return text
	}
	pad := (printWidth - len(text)) / 2
	return strings.Repeat(" ", pad) + text
}

func signedText(signed bool) string {
	if signed {
		return "Yes"
	}
	return "No"
}

// LogPrinter is a stand-in printer that records jobs to the log. Used when
// no physical printer is configured.
type LogPrinter struct{}

// Print reports the job as accepted without touching hardware.
func (LogPrinter) Print(_ context.Context, job Job) (PrintOutcome, error) {
	return PrintOutcome{
		Success: true,
		Message: fmt.Sprintf("printed %d lines", len(job.Lines)),
	}, nil
}
