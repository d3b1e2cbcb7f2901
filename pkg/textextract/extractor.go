package textextract

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"

	pkgerrors "github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/errors"
)

// Extractor turns uploaded document bytes into plain text. Implementations are
// treated as external collaborators: the ingest pipeline only sees the
// bytes-to-text contract and a bounded execution time.
type Extractor interface {
	Extract(ctx context.Context, document []byte) (string, error)
}

// CommandExtractor shells out to poppler's pdftotext with layout preservation.
type CommandExtractor struct {
	binary  string
	timeout time.Duration
}

// NewCommandExtractor builds an extractor invoking the given pdftotext binary.
func NewCommandExtractor(binary string, timeout time.Duration) *CommandExtractor {
	if binary == "" {
		binary = "pdftotext"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CommandExtractor{binary: binary, timeout: timeout}
}

// Extract writes the document to a temp file and converts it to text. A
// conversion failure or empty result surfaces as an extraction error so the
// upload aborts with no partial state.
func (e *CommandExtractor) Extract(ctx context.Context, document []byte) (string, error) {
	if len(document) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeExtraction, "empty document")
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	dir, err := os.MkdirTemp("", "debtor-report-*")
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create scratch dir")
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(src, document, 0o600); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write scratch document")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, "-layout", src, "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = multierr.Append(err, ctx.Err())
		}
		wrapped := pkgerrors.Wrap(pkgerrors.CodeExtraction, err, "pdftotext failed")
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			wrapped = wrapped.WithDetails(map[string]any{"stderr": detail})
		}
		return "", wrapped
	}

	text := stdout.String()
	if strings.TrimSpace(text) == "" {
		return "", pkgerrors.New(pkgerrors.CodeExtraction, "document produced no text")
	}
	return text, nil
}

// StaticExtractor returns canned text; it backs tests and local harnesses.
type StaticExtractor struct {
	Text string
	Err  error
}

func (s StaticExtractor) Extract(_ context.Context, _ []byte) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	if strings.TrimSpace(s.Text) == "" {
		return "", pkgerrors.New(pkgerrors.CodeExtraction, "document produced no text")
	}
	return s.Text, nil
}

var _ Extractor = (*CommandExtractor)(nil)
var _ Extractor = StaticExtractor{}

// IsExtractionFailed reports whether err carries the extraction failure code.
func IsExtractionFailed(err error) bool {
	typed := pkgerrors.As(err)
	return typed != nil && typed.Code() == pkgerrors.CodeExtraction
}
