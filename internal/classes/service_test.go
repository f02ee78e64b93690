package classes

import (
	"strings"
	"testing"
)

func TestGenerateClassCode(t *testing.T) {
	code, err := generateClassCode()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(code) != codeLength {
		t.Errorf("code length = %d, want %d", len(code), codeLength)
	}
	for _, c := range code {
		if !strings.ContainsRune(codeAlphabet, c) {
			t.Errorf("code %q contains %q, not in alphabet", code, c)
		}
	}
}

func TestGenerateClassCode_AvoidsAmbiguousCharacters(t *testing.T) {
	for _, forbidden := range "0O1I" {
		if strings.ContainsRune(codeAlphabet, forbidden) {
			t.Errorf("alphabet contains ambiguous character %q", forbidden)
		}
	}
}

func TestGenerateClassCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := generateClassCode()
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("20 generated codes were all identical")
	}
}
