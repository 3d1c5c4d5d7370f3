package runtime

import (
	"encoding/json"
	"log"
	"os"
)

// ToolOutcome is one executed tool call inside a round.
type ToolOutcome struct {
	Tool   string `json:"tool"`
	Result string `json:"result"`
}

type RoundError struct {
	Action string `json:"action"`
	Error  string `json:"error"`
	Trace  string `json:"traceback,omitempty"`
}

// IterationRecord captures everything one round did. It is appended to the
// history log when the round starts and mutated until the round ends.
type IterationRecord struct {
	Index        int           `json:"iteration"`
	Actions      []string      `json:"actions"`
	LLMResponses []string      `json:"llm_responses"`
	ToolResults  []ToolOutcome `json:"tool_results"`
	Errors       []RoundError  `json:"errors"`
}

// HistoryLog is the durable, per-run record of every round. It is written
// wholesale after each round for crash visibility; it carries no resume
// contract.
type HistoryLog struct {
	Iterations []*IterationRecord `json:"iterations"`
}

func NewHistoryLog() *HistoryLog {
	return &HistoryLog{Iterations: []*IterationRecord{}}
}

// StartIteration appends and returns the record for the given 1-based
// round index.
func (h *HistoryLog) StartIteration(index int) *IterationRecord {
	record := &IterationRecord{
		Index:        index,
		Actions:      []string{},
		LLMResponses: []string{},
		ToolResults:  []ToolOutcome{},
		Errors:       []RoundError{},
	}
	h.Iterations = append(h.Iterations, record)
	return record
}

func (h *HistoryLog) Render() string {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Flush overwrites the log file with the full history. Write failures
// are logged, never raised.
func (h *HistoryLog) Flush(path string) {
	data, err := json.MarshalIndent(h, "", "    ")
	if err != nil {
		log.Printf("⚠️ Error serializing history log: %v", err)
		return
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("⚠️ Error writing history log to %s: %v", path, err)
	}
}

func (r *IterationRecord) RecordAction(action string) {
	r.Actions = append(r.Actions, action)
}

func (r *IterationRecord) RecordResponse(content string) {
	r.LLMResponses = append(r.LLMResponses, content)
}

func (r *IterationRecord) RecordToolResult(tool, result string) {
	r.ToolResults = append(r.ToolResults, ToolOutcome{Tool: tool, Result: result})
}

func (r *IterationRecord) RecordError(action, message, trace string) {
	r.Errors = append(r.Errors, RoundError{Action: action, Error: message, Trace: trace})
}
