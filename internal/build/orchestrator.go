// File path: internal/build/orchestrator.go
package build

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/liveforge-ai/liveforge/internal/common"
	"github.com/liveforge-ai/liveforge/internal/ledger"
	"github.com/liveforge-ai/liveforge/internal/llm"
)

const totalSteps = 6

// Archiver persists finished records beyond the process lifetime.
type Archiver interface {
	SaveRecord(ctx context.Context, rec Record) error
}

const generationPrompt = `You are an expert Solana/Anchor developer. Generate a complete, production-ready Anchor program based on the user's request.

Requirements:
- Use anchor-lang 0.30.1
- Include proper account structures with constraints
- Implement all necessary instructions
- Add comprehensive error handling
- Generate a TypeScript SDK for the program
- Include example test code

Output format:
1. First, explain your approach (2-3 sentences)
2. Then provide the Rust program code (lib.rs) in a fenced rust block
3. Then provide the TypeScript SDK code (client.ts) in a fenced typescript block
4. Finally, provide test code (tests.ts) in a second fenced typescript block

Be specific and production-ready. The code should compile without modification.`

const analysisPrompt = `You are an expert Solana/Anchor developer. In 2-3 short sentences, describe the accounts, instructions and constraints a program for the following request needs. Plain prose only, no code.`

// Runner drives one build end-to-end: a fixed phase sequence that emits
// ordered events, mutates the build record and logs fingerprints to the
// ledger. External calls (generator, ledger) are best-effort; only an
// internal invariant violation fails a build.
type Runner struct {
	store         *Store
	provider      llm.Provider
	chain         ledger.Client
	archiver      Archiver
	genTimeout    time.Duration
	ledgerTimeout time.Duration

	// sleep paces the simulated compile transcript; tests replace it.
	sleep func(time.Duration)
	now   func() time.Time
}

// Option adjusts optional runner behaviour.
type Option func(*Runner)

// WithGeneratorTimeout bounds each generator call.
func WithGeneratorTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.genTimeout = d
		}
	}
}

// WithLedgerTimeout bounds each ledger call.
func WithLedgerTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.ledgerTimeout = d
		}
	}
}

// WithPacing overrides the delay function that paces the simulated
// transcript.
func WithPacing(sleep func(time.Duration)) Option {
	return func(r *Runner) {
		if sleep != nil {
			r.sleep = sleep
		}
	}
}

// NewRunner wires a runner. chain and archiver may be nil; both are
// optional collaborators.
func NewRunner(store *Store, provider llm.Provider, chain ledger.Client, archiver Archiver, opts ...Option) *Runner {
	r := &Runner{
		store:         store,
		provider:      provider,
		chain:         chain,
		archiver:      archiver,
		genTimeout:    60 * time.Second,
		ledgerTimeout: 10 * time.Second,
		sleep:         time.Sleep,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every phase for one prompt, emitting events through emit as
// they happen. It never returns an error to the caller: failure surfaces
// as an error event and a failed record status. The returned result is nil
// on failure.
func (r *Runner) Run(ctx context.Context, prompt string, emit func(Event)) (result *Result) {
	logger := common.Logger()
	started := r.now()
	buildID := NewBuildID()

	rec := Record{
		ID:          buildID,
		Prompt:      prompt,
		Status:      StatusInProgress,
		StartedAt:   started,
		ChainProofs: []ChainProof{},
		Files:       []GeneratedFile{},
	}
	if err := r.store.Insert(rec); err != nil {
		logger.Error("build: insert record", "id", buildID, "error", err)
		emit(ErrorEvent{Message: err.Error()})
		return nil
	}
	logger.Info("build: started", "id", buildID, "prompt", truncatePrompt(prompt, 60))

	defer func() {
		if p := recover(); p != nil {
			logger.Error("build: aborted", "id", buildID, "panic", p)
			r.finish(ctx, buildID, started, StatusFailed, "")
			emit(ErrorEvent{Message: fmt.Sprint(p)})
			result = nil
		}
	}()

	// Ledger init
	emit(ProgressEvent{Step: 1, Total: totalSteps, Description: "Initializing build on-chain..."})
	ledgerLive := r.chain != nil && r.chain.Available()
	if ledgerLive {
		tx, err := r.ledgerInit(ctx, buildID, prompt)
		if err != nil {
			logger.Warn("build: ledger init failed", "id", buildID, "error", err)
			emit(TerminalEvent{Output: fmt.Sprintf("⚠ On-chain logging unavailable: %v\n", err)})
			ledgerLive = false
		} else {
			emit(ChainLogEvent{TxHash: tx, StepNumber: 0})
			emit(TerminalEvent{Output: fmt.Sprintf("✓ Build initialized on-chain: %s\n", tx)})
			r.store.AppendProof(buildID, ChainProof{Step: 0, TxHash: tx, Hash: "init"})
		}
	}
	r.sleep(500 * time.Millisecond)

	// Analyze
	emit(ProgressEvent{Step: 2, Total: totalSteps, Description: "Analyzing prompt..."})
	emit(ThinkingEvent{Message: r.analyze(ctx, prompt)})
	r.sleep(800 * time.Millisecond)

	// Generate source
	emit(ProgressEvent{Step: 3, Total: totalSteps, Description: "Generating program code..."})
	program, sdk, tests := r.generate(ctx, prompt, emit)
	r.sleep(time.Second)

	// Append source record
	emit(CodeEvent{File: "programs/lib.rs", Content: program})
	r.store.AppendFile(buildID, GeneratedFile{Name: "lib.rs", Content: program})
	r.sleep(500 * time.Millisecond)
	if ledgerLive {
		r.ledgerLog(ctx, buildID, emit, 2, "generate_code", "Anchor program generated", program)
	}

	// Compile (simulated)
	emit(ProgressEvent{Step: 4, Total: totalSteps, Description: "Building program..."})
	transcript := []struct {
		line  string
		pause time.Duration
	}{
		{"$ anchor build\n", 400 * time.Millisecond},
		{"Compiling solana-program v1.18.0\n", 600 * time.Millisecond},
		{fmt.Sprintf("Compiling %s... v0.1.0\n", truncatePrompt(prompt, 30)), 800 * time.Millisecond},
		{"   Finished release [optimized] target(s)\n", 300 * time.Millisecond},
		{"✓ Build successful\n", 500 * time.Millisecond},
	}
	for _, entry := range transcript {
		emit(TerminalEvent{Output: entry.line})
		r.sleep(entry.pause)
	}
	if ledgerLive {
		r.ledgerLog(ctx, buildID, emit, 3, "compile_program", "Program compiled successfully", "build_success")
	}

	// Generate SDK record
	emit(ProgressEvent{Step: 5, Total: totalSteps, Description: "Generating TypeScript SDK..."})
	r.sleep(800 * time.Millisecond)
	emit(CodeEvent{File: "client/sdk.ts", Content: sdk})
	r.store.AppendFile(buildID, GeneratedFile{Name: "client.ts", Content: sdk})
	r.store.AppendFile(buildID, GeneratedFile{Name: "tests.ts", Content: tests})
	r.sleep(500 * time.Millisecond)
	if ledgerLive {
		r.ledgerLog(ctx, buildID, emit, 4, "generate_sdk", "TypeScript SDK generated", sdk)
	}

	// Finalize
	emit(ProgressEvent{Step: 6, Total: totalSteps, Description: "Finalizing build..."})
	r.sleep(500 * time.Millisecond)
	emit(TerminalEvent{Output: "✓ Build complete!\n"})

	programID := NewProgramID()
	r.finish(ctx, buildID, started, StatusSuccess, programID)

	final, _ := r.store.Get(buildID)
	proofTxs := make([]string, 0, len(final.ChainProofs))
	for _, proof := range final.ChainProofs {
		proofTxs = append(proofTxs, proof.TxHash)
	}
	res := Result{
		AgentName:  truncatePrompt(prompt, 50),
		ProgramID:  programID,
		BuildID:    buildID,
		ChainProof: proofTxs,
	}
	emit(CompleteEvent{Result: res})
	logger.Info("build: completed", "id", buildID, "duration", final.Duration, "proofs", len(proofTxs))
	return &res
}

// analyze asks the generator for a short requirements summary; any failure
// falls back to a canned line so the stream always narrates this phase.
func (r *Runner) analyze(ctx context.Context, prompt string) string {
	ctx, cancel := context.WithTimeout(ctx, r.genTimeout)
	defer cancel()
	reply, err := r.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: analysisPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil || StripFences(reply) == "" {
		if err != nil {
			common.Logger().Warn("build: analysis unavailable", "error", err)
		}
		return "Analyzing prompt structure and identifying program requirements..."
	}
	return StripFences(reply)
}

// generate calls the generator once for all three artifacts, extracting
// fenced blocks and filling any gap from the deterministic templates.
func (r *Runner) generate(ctx context.Context, prompt string, emit func(Event)) (program, sdk, tests string) {
	emit(ThinkingEvent{Message: "Designing program structure with account models, instructions, and error handling..."})

	genCtx, cancel := context.WithTimeout(ctx, r.genTimeout)
	defer cancel()
	reply, err := r.provider.Chat(genCtx, []llm.Message{
		{Role: "system", Content: generationPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		common.Logger().Warn("build: generation unavailable", "error", err)
		emit(ThinkingEvent{Message: fmt.Sprintf("Code generation unavailable (%v), using template...", err)})
		return FallbackProgram(prompt), FallbackSDK(prompt), FallbackTests(prompt)
	}

	if lines := Preamble(reply); len(lines) > 0 {
		for _, line := range lines {
			emit(ThinkingEvent{Message: line})
		}
	}

	program = ExtractProgram(reply)
	if program == "" {
		program = FallbackProgram(prompt)
	}
	sdk = ExtractSDK(reply)
	if sdk == "" {
		sdk = FallbackSDK(prompt)
	}
	tests = ExtractTests(reply)
	if tests == "" {
		tests = FallbackTests(prompt)
	}
	return program, sdk, tests
}

func (r *Runner) ledgerInit(ctx context.Context, buildID, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.ledgerTimeout)
	defer cancel()
	return r.chain.InitializeBuild(ctx, buildID, truncatePrompt(prompt, 50))
}

// ledgerLog fingerprints content, submits it and records the proof. Every
// failure is logged and swallowed: on-chain anchoring never blocks a build.
func (r *Runner) ledgerLog(ctx context.Context, buildID string, emit func(Event), step int, action, description, content string) {
	digest := sha256.Sum256([]byte(content))
	callCtx, cancel := context.WithTimeout(ctx, r.ledgerTimeout)
	defer cancel()
	tx, err := r.chain.LogAction(callCtx, buildID, action, description, digest[:])
	if err != nil {
		common.Logger().Warn("build: ledger log failed", "id", buildID, "step", step, "error", err)
		return
	}
	emit(ChainLogEvent{TxHash: tx, StepNumber: step})
	r.store.AppendProof(buildID, ChainProof{Step: step, TxHash: tx, Hash: ShortFingerprint(content)})
}

// finish applies the terminal transition and archives the record.
func (r *Runner) finish(ctx context.Context, buildID string, started time.Time, status Status, programID string) {
	completed := r.now()
	duration := FormatDuration(completed.Sub(started))
	patch := Patch{Status: &status, CompletedAt: &completed, Duration: &duration}
	if programID != "" {
		patch.ProgramID = &programID
	}
	r.store.Apply(buildID, patch)

	if r.archiver == nil {
		return
	}
	rec, ok := r.store.Get(buildID)
	if !ok {
		return
	}
	if err := r.archiver.SaveRecord(ctx, rec); err != nil {
		common.Logger().Warn("build: archive record", "id", buildID, "error", err)
	}
}
