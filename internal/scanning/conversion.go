package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// rasterizePDF renders the first page of a PDF as PNG. Receipts are single
// page in practice.
func rasterizePDF(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeToPNG re-encodes any supported image format as PNG. HEIC/HEIF
// (common on iPhones) is not handled by the standard image package and goes
// through a dedicated decoder.
func decodeToPNG(imageData []byte, mimeType string) ([]byte, error) {
	var img image.Image
	var err error

	if isHEICData(imageData) || isHEICMimeType(mimeType) {
		img, err = heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding image: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// isHEICData checks for the HEIC/HEIF ftyp box signature.
func isHEICData(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}

func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

// preparePNG converts a receipt file to PNG for the vision API. PDFs are
// rasterized, every other format is re-encoded. Data already in PNG passes
// through untouched.
func preparePNG(data []byte, mimeType string) ([]byte, error) {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))

	switch {
	case mimeType == "application/pdf":
		pngData, err := rasterizePDF(data)
		if err != nil {
			return nil, fmt.Errorf("converting PDF to image: %w", err)
		}
		return pngData, nil
	case mimeType != "image/png" || isHEICData(data):
		pngData, err := decodeToPNG(data, mimeType)
		if err != nil {
			return nil, fmt.Errorf("converting image to PNG: %w", err)
		}
		return pngData, nil
	}
	return data, nil
}
