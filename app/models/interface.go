package models

import (
	"context"

	"github.com/lalomorales22/ditto/app/tools"
)

type Interface interface {
	// Complete asks the provider for the next turn with the full tool schema
	// attached and tool selection left to the model. A (nil, nil) return
	// means the provider produced no usable message; callers treat that as
	// retryable.
	Complete(ctx context.Context, messages []Message, toolkit map[string]tools.Tool) (*Message, error)
	// Think asks for a plain, tool-disabled completion and returns its text.
	// An empty string with nil error means the provider had nothing usable.
	Think(ctx context.Context, messages []Message) (string, error)
	SupportsToolCalling() bool
}

type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

type ToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}
