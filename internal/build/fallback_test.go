// File path: internal/build/fallback_test.go
package build

import (
	"strings"
	"testing"
)

func TestNewProgramID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id := NewProgramID()
		if len(id) != 44 {
			t.Fatalf("expected 44-character id, got %d: %q", len(id), id)
		}
		for _, c := range id {
			if !strings.ContainsRune(programIDAlphabet, c) {
				t.Fatalf("character %q outside alphabet in %q", c, id)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate program id: %q", id)
		}
		seen[id] = true
	}
}

func TestSanitizeProgramName(t *testing.T) {
	cases := map[string]string{
		"Build a Counter program!":    "build_a_counter_program",
		"   ":                         "generated_program",
		"NFT marketplace w/ auctions": "nft_marketplace_w__auctions",
	}
	for prompt, want := range cases {
		if got := sanitizeProgramName(prompt); got != want {
			t.Fatalf("sanitize(%q): expected %q, got %q", prompt, want, got)
		}
	}
	long := sanitizeProgramName(strings.Repeat("token swap ", 10))
	if len(long) > 30 {
		t.Fatalf("expected name capped at 30 chars, got %d", len(long))
	}
}

func TestFallbackTemplatesAreNonEmptyAndParseable(t *testing.T) {
	prompt := "Build a voting program"

	program := FallbackProgram(prompt)
	if !strings.Contains(program, "pub mod build_a_voting_program") {
		t.Fatalf("program template missing module name:\n%s", program)
	}
	if !strings.Contains(program, "declare_id!") {
		t.Fatal("program template missing declare_id")
	}

	sdk := FallbackSDK(prompt)
	if !strings.Contains(sdk, "export class SolanaAgentSDK") {
		t.Fatal("sdk template missing class")
	}

	tests := FallbackTests(prompt)
	if !strings.Contains(tests, "describe('Build a voting program'") {
		t.Fatalf("tests template missing describe block:\n%s", tests)
	}
}
