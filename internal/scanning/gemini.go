package scanning

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini implements the Recognizer interface using Google Gemini vision.
// One call carries the whole batch: all images plus the extraction prompt.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a new Gemini Recognizer instance.
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// RecognizeBatch sends every file in the batch in a single generation call
// and returns the extracted records in input order. The caller owns the
// context deadline.
func (g *Gemini) RecognizeBatch(ctx context.Context, files []File) ([]RawResult, error) {
	parts := make([]genai.Part, 0, len(files)+1)
	for _, f := range files {
		data, err := decodePayload(f)
		if err != nil {
			return nil, err
		}
		// genai.ImageData takes the format suffix, not the full MIME type.
		// Everything is PNG after preparePNG.
		pngData, err := preparePNG(data, f.MimeType)
		if err != nil {
			return nil, fmt.Errorf("preparing %s: %w", f.Name, err)
		}
		parts = append(parts, genai.ImageData("png", pngData))
	}
	parts = append(parts, genai.Text(fmt.Sprintf(batchScanPrompt, len(files), len(files))))

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	results, err := parseResultsJSON(responseText.String())
	if err != nil {
		return nil, fmt.Errorf("parsing recognition response: %w", err)
	}
	if len(results) != len(files) {
		return nil, fmt.Errorf("recognition returned %d results for %d files", len(results), len(files))
	}
	return results, nil
}

// Close closes the Gemini client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
