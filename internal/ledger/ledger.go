// File path: internal/ledger/ledger.go
package ledger

import (
	"context"
	"crypto/sha256"
	"strings"
	"time"
)

// Client is the append-only verification ledger collaborator. Every call is
// best-effort from the orchestrator's point of view: a failed submit is
// logged and skipped, never fatal to a build.
type Client interface {
	// InitializeBuild registers a build account on the ledger and returns
	// the transaction reference.
	InitializeBuild(ctx context.Context, buildID, projectName string) (string, error)
	// LogAction appends one verification entry (action kind, human
	// description, content fingerprint) to the build account.
	LogAction(ctx context.Context, buildID, action, description string, contentHash []byte) (string, error)
	// ReadBuild fetches the current on-ledger build account state.
	ReadBuild(ctx context.Context, buildID string) (*BuildAccount, error)
	// Available reports whether the gateway answered the last health probe.
	Available() bool
}

// BuildAccount mirrors the on-ledger build record maintained by the
// liveforge-logger program.
type BuildAccount struct {
	BuildID     string `json:"build_id"`
	ProjectName string `json:"project_name"`
	StepCount   int    `json:"step_count"`
	Status      string `json:"status"`
	StartedAt   int64  `json:"started_at"`
}

// Config holds the ledger gateway connection settings.
type Config struct {
	Endpoint  string        `env:"ENDPOINT"`
	Authority string        `env:"AUTHORITY"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Enabled reports whether a gateway endpoint was configured.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

const accountRefLen = 44

// base58-style alphabet without the ambiguous characters I, O, l and 0.
const refAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz123456789"

// DeriveAccountRef maps a build id onto a deterministic 44-character
// account reference, the moral equivalent of a program-derived address
// seeded by ["build", buildID].
func DeriveAccountRef(buildID string) string {
	block := sha256.Sum256([]byte("build:" + buildID))
	out := make([]byte, 0, accountRefLen)
	for len(out) < accountRefLen {
		for _, b := range block {
			out = append(out, refAlphabet[int(b)%len(refAlphabet)])
			if len(out) == accountRefLen {
				break
			}
		}
		block = sha256.Sum256(block[:])
	}
	return string(out)
}
