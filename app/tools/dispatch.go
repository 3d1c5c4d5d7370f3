package tools

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/lalomorales22/ditto/app/utils"
)

// ErrUnknownTool marks a tool call naming a capability the toolkit does not
// expose. Recorded per round, never raised.
var ErrUnknownTool = errors.New("unknown tool")

// Result is the outcome of one dispatched tool call. Err carries dispatch
// failures (unknown tool, malformed arguments, path escape, panic); handler
// level I/O problems arrive as Output text instead.
type Result struct {
	Tool   string
	Output string
	Err    error
	Trace  string
}

// Dispatch resolves and executes one tool call against the given toolkit
// and sandbox root: parse the raw arguments, rewrite any path argument into
// the root, invoke the handler. It never panics.
func Dispatch(toolkit map[string]Tool, root, name, rawArguments string) (result Result) {
	result.Tool = name

	defer func() {
		if rec := recover(); rec != nil {
			result.Err = fmt.Errorf("tool %s panicked: %v", name, rec)
			result.Trace = string(debug.Stack())
		}
	}()

	tool, ok := toolkit[name]
	if !ok || tool.HandlerFunc == nil {
		result.Err = fmt.Errorf("%w: %s", ErrUnknownTool, name)
		return result
	}

	params, err := utils.ParseArguments(rawArguments)
	if err != nil {
		result.Err = err
		return result
	}

	if err = rewritePaths(root, params); err != nil {
		result.Err = err
		return result
	}

	output, err := tool.HandlerFunc(ToolTask{Key: name, Parameters: params, Root: root})
	if err != nil {
		result.Err = fmt.Errorf("executing %s: %w", name, err)
		return result
	}

	result.Output = output
	return result
}
