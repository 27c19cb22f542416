// File path: internal/build/extract_test.go
package build

import (
	"strings"
	"testing"
)

const sampleResponse = "Here is the on-chain program.\nIt keeps a single counter account.\n\n```rust\nuse anchor_lang::prelude::*;\n\n#[program]\npub mod counter {}\n```\n\nAnd the client SDK:\n\n```typescript\nexport class CounterClient {}\n```\n\nFinally the tests:\n\n```ts\nimport { expect } from \"chai\";\n```\n"

func TestExtractProgram(t *testing.T) {
	program := ExtractProgram(sampleResponse)
	if !strings.HasPrefix(program, "use anchor_lang::prelude::*;") {
		t.Fatalf("unexpected program: %q", program)
	}
	if strings.Contains(program, "```") {
		t.Fatalf("program still contains fence: %q", program)
	}
	if ExtractProgram("no code here") != "" {
		t.Fatal("expected empty program for fence-free response")
	}
}

func TestExtractSDKAndTests(t *testing.T) {
	sdk := ExtractSDK(sampleResponse)
	if !strings.Contains(sdk, "CounterClient") {
		t.Fatalf("unexpected sdk: %q", sdk)
	}
	tests := ExtractTests(sampleResponse)
	if !strings.Contains(tests, "chai") {
		t.Fatalf("unexpected tests: %q", tests)
	}
	if ExtractTests("```typescript\nonly one block\n```") != "" {
		t.Fatal("expected empty tests when only one typescript block exists")
	}
}

func TestPreamble(t *testing.T) {
	lines := Preamble(sampleResponse)
	if len(lines) != 2 {
		t.Fatalf("expected 2 preamble lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "Here is the on-chain program." {
		t.Fatalf("unexpected first line: %q", lines[0])
	}

	plain := Preamble("a single narration line")
	if len(plain) != 1 || plain[0] != "a single narration line" {
		t.Fatalf("unexpected fence-free preamble: %v", plain)
	}
}

func TestStripFences(t *testing.T) {
	stripped := StripFences(sampleResponse)
	if strings.Contains(stripped, "anchor_lang") {
		t.Fatalf("fenced code survived strip: %q", stripped)
	}
	if !strings.Contains(stripped, "client SDK") {
		t.Fatalf("narration lost: %q", stripped)
	}
}
