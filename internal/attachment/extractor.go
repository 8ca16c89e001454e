package attachment

import (
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"chatbot-catalog/backend/pkg/logger"
	"chatbot-catalog/backend/shared/observability"
)

// allowedTypes is the upload allow-list enforced at the HTTP boundary.
// Files outside it are silently dropped before extraction.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"text/plain": true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// IsAllowed reports whether the declared mimetype is accepted for upload
func IsAllowed(contentType string) bool {
	return allowedTypes[contentType]
}

// File is one uploaded attachment, held in memory for the duration of a
// single chat request and then discarded.
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// Part is one fragment of a multi-part message content
type Part struct {
	Type     string // "text" or "image_url"
	Text     string
	ImageURL string
}

// Content is the extracted message content for one chat turn. When no image
// was attached the annotated Text accumulator is the whole content; when at
// least one image was seen, Parts carries the text fragment plus one image
// part per image.
type Content struct {
	Text      string
	Parts     []Part
	HasImages bool
}

// Extractor turns uploaded files into message content fragments
type Extractor struct {
	tempDir string
	pdfTool string
	log     *logger.Logger
}

// NewExtractor creates an extractor. pdfTool is the pdftotext binary used
// for PDF text extraction.
func NewExtractor(tempDir, pdfTool string, log *logger.Logger) *Extractor {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if pdfTool == "" {
		pdfTool = "pdftotext"
	}
	return &Extractor{tempDir: tempDir, pdfTool: pdfTool, log: log}
}

// Build assembles the content for one chat turn from the user's message and
// its attachments. A failure on one file degrades to an annotation and never
// aborts the remaining files.
func (e *Extractor) Build(message string, files []File) Content {
	content := Content{Text: message}
	parts := []Part{{Type: "text", Text: message}}

	for _, file := range files {
		switch {
		case strings.HasPrefix(file.ContentType, "image/"):
			encoded := base64.StdEncoding.EncodeToString(file.Data)
			parts = append(parts, Part{
				Type:     "image_url",
				ImageURL: fmt.Sprintf("data:%s;base64,%s", file.ContentType, encoded),
			})
			content.HasImages = true
			content.Text += fmt.Sprintf("\n[Imagem anexada: %s]", file.Filename)

		case strings.Contains(file.ContentType, "text") || strings.HasSuffix(file.Filename, ".txt"):
			content.Text += fmt.Sprintf("\n\n[Conteúdo do arquivo %s]:\n%s", file.Filename, string(file.Data))

		case file.ContentType == "application/pdf":
			content.Text += e.extractPDF(file)

		default:
			content.Text += fmt.Sprintf("\n[Documento anexado: %s (%s KB)]", file.Filename, kilobytes(file.Size))
		}
	}

	if content.HasImages {
		content.Parts = parts
	}

	return content
}

// extractPDF writes the PDF to a temp file, runs the extraction tool against
// it and returns the fragment to append. The temp file is removed on every
// exit path; any failure degrades to a size annotation.
func (e *Extractor) extractPDF(file File) string {
	tmp, err := os.CreateTemp(e.tempDir, "chat-*.pdf")
	if err != nil {
		e.log.Warn("Failed to create temp file for PDF extraction",
			"file", file.Filename,
			"error", err.Error(),
		)
		observability.ExtractionsDegraded.Inc()
		return fmt.Sprintf("\n[PDF anexado: %s (%s KB)]", file.Filename, kilobytes(file.Size))
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(file.Data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		e.log.Warn("Failed to write temp file for PDF extraction",
			"file", file.Filename,
			"error", err.Error(),
		)
		observability.ExtractionsDegraded.Inc()
		return fmt.Sprintf("\n[PDF anexado: %s (%s KB)]", file.Filename, kilobytes(file.Size))
	}

	out, err := exec.Command(e.pdfTool, tmp.Name(), "-").Output()
	extracted := strings.TrimSpace(string(out))

	if err != nil || len(extracted) <= 10 {
		if err != nil {
			e.log.Warn("PDF text extraction failed",
				"file", file.Filename,
				"error", err.Error(),
			)
		}
		observability.ExtractionsDegraded.Inc()
		return fmt.Sprintf("\n[PDF anexado: %s (%s KB) - Texto não pôde ser extraído]", file.Filename, kilobytes(file.Size))
	}

	return fmt.Sprintf("\n\n[Conteúdo extraído do PDF %s]:\n%s", file.Filename, extracted)
}

func kilobytes(size int64) string {
	return fmt.Sprintf("%.1f", float64(size)/1024)
}
