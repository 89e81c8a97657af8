package models

import (
	"strings"
	"testing"
)

func TestValidateClientID(t *testing.T) {
	valid := []string{"c1", "client-42", "9f8d2a", strings.Repeat("a", 128)}
	for _, id := range valid {
		if err := ValidateClientID(id); err != nil {
			t.Errorf("expected %q to be valid, got %v", id, err)
		}
	}

	invalid := []string{"", "  ", "a/b", `a\b`, strings.Repeat("a", 129)}
	for _, id := range invalid {
		if err := ValidateClientID(id); err == nil {
			t.Errorf("expected %q to be rejected", id)
		}
	}
}

func TestValidateFileName(t *testing.T) {
	if err := ValidateFileName("report Q3.pdf"); err != nil {
		t.Fatalf("expected valid file name, got %v", err)
	}
	if err := ValidateFileName(""); err == nil {
		t.Fatal("expected empty file name to be rejected")
	}
	if err := ValidateFileName(strings.Repeat("x", 256)); err == nil {
		t.Fatal("expected overlong file name to be rejected")
	}
}

func TestValidateUploaderID(t *testing.T) {
	if err := ValidateUploaderID(""); err != nil {
		t.Fatalf("empty uploader id should be allowed: %v", err)
	}
	if err := ValidateUploaderID("u-123"); err != nil {
		t.Fatalf("expected valid uploader id, got %v", err)
	}
	if err := ValidateUploaderID(strings.Repeat("u", 200)); err == nil {
		t.Fatal("expected overlong uploader id to be rejected")
	}
}
