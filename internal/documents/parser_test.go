package documents

import (
	"strings"
	"testing"

	pkgerrors "github.com/adforge/adforge-backend/pkg/errors"
)

func TestExtractText(t *testing.T) {
	text, err := ExtractText("brief.txt", strings.NewReader("  Launch plan for Q3.  "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Launch plan for Q3." {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractTextRejectsUnsupportedType(t *testing.T) {
	_, err := ExtractText("brief.pdf", strings.NewReader("%PDF-1.4"))
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExtractTextRejectsEmptyDocument(t *testing.T) {
	_, err := ExtractText("brief.txt", strings.NewReader("   \n  "))
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExtractTextHandlesLatin1(t *testing.T) {
	text, err := ExtractText("brief.txt", strings.NewReader("caf\xe9 campaign"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "café campaign" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractMetadata(t *testing.T) {
	doc := "Brand Name: Acme Co\nProduct: Rocket Skates\nSome body text."
	meta := ExtractMetadata(doc)
	if meta.Brand != "Acme Co" {
		t.Fatalf("unexpected brand %q", meta.Brand)
	}
	if meta.ProductName != "Rocket Skates" {
		t.Fatalf("unexpected product %q", meta.ProductName)
	}
}

func TestExtractMetadataMissingLabels(t *testing.T) {
	meta := ExtractMetadata("no labels at all")
	if meta.Brand != "" || meta.ProductName != "" {
		t.Fatalf("expected empty metadata, got %+v", meta)
	}
}
