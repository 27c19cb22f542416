// File path: internal/build/event.go
package build

import (
	"encoding/json"
	"fmt"
)

// Event is one frame of a live build stream. The set of variants is closed:
// MarshalEvent switches exhaustively over the concrete types below and
// rejects anything else, so adding a variant forces a decision about its
// wire shape.
type Event interface {
	eventKind() string
}

// StatusEvent announces a coarse phase transition.
type StatusEvent struct {
	Message string
}

// ThinkingEvent streams one line of generator narration.
type ThinkingEvent struct {
	Message string
}

// CodeEvent carries a complete generated file.
type CodeEvent struct {
	File    string
	Content string
}

// TerminalEvent carries one chunk of simulated build output.
type TerminalEvent struct {
	Output string
}

// ProgressEvent advances the step counter shown by clients.
type ProgressEvent struct {
	Step        int
	Total       int
	Description string
}

// ChainLogEvent reports a ledger transaction anchoring one step.
type ChainLogEvent struct {
	TxHash     string
	StepNumber int
}

// CompleteEvent terminates a successful stream.
type CompleteEvent struct {
	Result Result
}

// ErrorEvent terminates a failed stream.
type ErrorEvent struct {
	Message string
}

// Result summarizes a finished build for the complete frame.
type Result struct {
	AgentName  string   `json:"agentName"`
	ProgramID  string   `json:"programId"`
	BuildID    string   `json:"buildId"`
	ChainProof []string `json:"chainProof"`
}

func (StatusEvent) eventKind() string   { return "status" }
func (ThinkingEvent) eventKind() string { return "thinking" }
func (CodeEvent) eventKind() string     { return "code" }
func (TerminalEvent) eventKind() string { return "terminal" }
func (ProgressEvent) eventKind() string { return "progress" }
func (ChainLogEvent) eventKind() string { return "chain_log" }
func (CompleteEvent) eventKind() string { return "complete" }
func (ErrorEvent) eventKind() string    { return "error" }

// MarshalEvent encodes one event as the JSON object written to the stream.
func MarshalEvent(ev Event) ([]byte, error) {
	switch e := ev.(type) {
	case StatusEvent:
		return json.Marshal(struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}{"status", e.Message})
	case ThinkingEvent:
		return json.Marshal(struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}{"thinking", e.Message})
	case CodeEvent:
		return json.Marshal(struct {
			Type    string `json:"type"`
			File    string `json:"file"`
			Content string `json:"content"`
		}{"code", e.File, e.Content})
	case TerminalEvent:
		return json.Marshal(struct {
			Type   string `json:"type"`
			Output string `json:"output"`
		}{"terminal", e.Output})
	case ProgressEvent:
		return json.Marshal(struct {
			Type        string `json:"type"`
			Step        int    `json:"step"`
			Total       int    `json:"total"`
			Description string `json:"description"`
		}{"progress", e.Step, e.Total, e.Description})
	case ChainLogEvent:
		return json.Marshal(struct {
			Type       string `json:"type"`
			TxHash     string `json:"txHash"`
			StepNumber int    `json:"stepNumber"`
		}{"chain_log", e.TxHash, e.StepNumber})
	case CompleteEvent:
		return json.Marshal(struct {
			Type   string `json:"type"`
			Result Result `json:"result"`
		}{"complete", e.Result})
	case ErrorEvent:
		return json.Marshal(struct {
			Type  string `json:"type"`
			Error string `json:"error"`
		}{"error", e.Message})
	default:
		return nil, fmt.Errorf("unknown event type %T", ev)
	}
}
