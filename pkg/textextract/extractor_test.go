package textextract

import (
	"context"
	"testing"

	pkgerrors "github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/errors"
)

func TestCommandExtractorRejectsEmptyDocument(t *testing.T) {
	e := NewCommandExtractor("pdftotext", 0)
	_, err := e.Extract(context.Background(), nil)
	if !IsExtractionFailed(err) {
		t.Fatalf("expected extraction failure, got %v", err)
	}
}

func TestStaticExtractorReturnsText(t *testing.T) {
	e := StaticExtractor{Text: "hello"}
	text, err := e.Extract(context.Background(), []byte("ignored"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestStaticExtractorBlankTextFails(t *testing.T) {
	e := StaticExtractor{Text: "   \n"}
	_, err := e.Extract(context.Background(), nil)
	if !IsExtractionFailed(err) {
		t.Fatalf("expected extraction failure, got %v", err)
	}
}

func TestIsExtractionFailed(t *testing.T) {
	if IsExtractionFailed(pkgerrors.New(pkgerrors.CodeDependency, "other")) {
		t.Fatal("dependency error should not read as extraction failure")
	}
	if !IsExtractionFailed(pkgerrors.New(pkgerrors.CodeExtraction, "nope")) {
		t.Fatal("extraction error not detected")
	}
}
