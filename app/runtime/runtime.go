package runtime

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lalomorales22/ditto/app/models"
	"github.com/lalomorales22/ditto/app/storage"
	"github.com/lalomorales22/ditto/app/tools"
	"github.com/lalomorales22/ditto/app/utils"
)

const defaultMaxRounds = 50

// ErrToolCallingUnsupported aborts a run before the first round when the
// configured model cannot emit tool calls.
var ErrToolCallingUnsupported = errors.New("model does not support tool calling")

type Config struct {
	LogDir       string
	RoundDelay   time.Duration
	RetryBackoff time.Duration
	RoundTimeout time.Duration
}

func (c *Config) withDefaults() {
	if c.LogDir == "" {
		c.LogDir = "logs"
	}
	if c.RoundDelay <= 0 {
		c.RoundDelay = 2 * time.Second
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 5 * time.Second
	}
	if c.RoundTimeout <= 0 {
		c.RoundTimeout = 2 * time.Minute
	}
}

// Runtime drives build runs: it owns the conversation with the model,
// dispatches requested tool calls inside the project sandbox, and
// finalizes a version when the model signals completion.
type Runtime struct {
	model   models.Interface
	db      storage.Interface
	toolkit map[string]tools.Tool
	config  Config

	mu        sync.Mutex
	listeners []func(*Run)
}

func NewRuntime(model models.Interface, db storage.Interface, config Config) *Runtime {
	config.withDefaults()
	return &Runtime{
		model:   model,
		db:      db,
		toolkit: tools.BuilderToolkit(),
		config:  config,
	}
}

// AddListener registers a callback invoked once per run when it reaches a
// terminal status.
func (rt *Runtime) AddListener(fn func(*Run)) {
	rt.mu.Lock()
	rt.listeners = append(rt.listeners, fn)
	rt.mu.Unlock()
}

// StartBuild launches the iteration controller on its own goroutine and
// returns the run handle immediately. Cancel ctx to stop the run between
// rounds.
func (rt *Runtime) StartBuild(ctx context.Context, task BuildTask) *Run {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.MaxRounds <= 0 {
		task.MaxRounds = defaultMaxRounds
	}
	run := newRun(task)
	go rt.runBuild(ctx, run)
	return run
}

func (rt *Runtime) runBuild(ctx context.Context, run *Run) {
	task := run.task

	if !rt.model.SupportsToolCalling() {
		log.Printf("❌ Run %s aborted: model does not support tool calling", task.ID)
		run.appendNarrative("Model does not support function calling.")
		run.finish(StatusError, ErrToolCallingUnsupported)
		rt.notify(run)
		return
	}

	if err := os.MkdirAll(task.Root, 0o755); err != nil {
		log.Printf("❌ Run %s aborted: cannot prepare project root: %v", task.ID, err)
		run.appendNarrative(fmt.Sprintf("Cannot prepare project directory: %v", err))
		run.finish(StatusError, err)
		rt.notify(run)
		return
	}
	if err := os.MkdirAll(rt.config.LogDir, 0o755); err != nil {
		log.Printf("⚠️ Cannot create log directory %s: %v", rt.config.LogDir, err)
	}

	history := NewHistoryLog()
	logPath := filepath.Join(rt.config.LogDir, fmt.Sprintf("build_history_%s.json", task.ID))
	messages := models.SeedMessages(task.Input, task.Root, history.Render())

	log.Printf("🚀 Run %s started for project %d (max %d rounds)", task.ID, task.ProjectID, task.MaxRounds)
	run.setStatus(StatusRunning)

	for round := 1; round <= task.MaxRounds; round++ {
		if err := ctx.Err(); err != nil {
			log.Printf("🚨 Run %s canceled before round %d", task.ID, round)
			run.finish(StatusError, err)
			rt.notify(run)
			return
		}

		run.advanceRound(round)
		record := history.StartIteration(round)

		callCtx, cancel := context.WithTimeout(ctx, rt.config.RoundTimeout)
		reply, err := rt.model.Complete(callCtx, messages, rt.toolkit)
		cancel()

		if err != nil || reply == nil {
			message := "no usable message from provider"
			if err != nil {
				message = err.Error()
			}
			record.RecordError("llm_completion", message, "")
			history.Flush(logPath)
			sleepCtx(ctx, rt.config.RetryBackoff)
			continue
		}

		record.RecordResponse(reply.Content)
		run.appendNarrative(fmt.Sprintf("\nIteration %d:\n", round))

		if len(reply.ToolCalls) > 0 {
			messages = append(messages, *reply)
			run.appendNarrative(reply.Content)

			completed := false
			for _, call := range reply.ToolCalls {
				record.RecordAction("tool_call_" + call.Function.Name)

				if call.Function.Name == tools.TaskCompleted {
					rt.complete(run, history, logPath)
					completed = true
					break
				}

				result := tools.Dispatch(rt.toolkit, task.Root, call.Function.Name, call.Function.Arguments)
				if result.Err != nil {
					record.RecordError("tool_call_"+call.Function.Name, result.Err.Error(), result.Trace)
					messages = append(messages, models.Message{
						Role:       "tool",
						ToolCallID: call.ID,
						Content:    result.Err.Error(),
					})
					continue
				}

				record.RecordToolResult(call.Function.Name, result.Output)
				run.appendNarrative(fmt.Sprintf("Tool Result (%s): %s\n", call.Function.Name, result.Output))
				messages = append(messages, models.Message{
					Role:       "tool",
					ToolCallID: call.ID,
					Content:    result.Output,
				})
			}
			if completed {
				return
			}

			reflection, err := rt.model.Think(ctx, messages)
			if err != nil || reflection == "" {
				message := "no usable message from provider"
				if err != nil {
					message = err.Error()
				}
				record.RecordError("second_llm_completion", message, "")
			} else {
				record.RecordResponse(reflection)
				messages = append(messages, models.Message{Role: "assistant", Content: reflection})
				run.appendNarrative(reflection + "\n")
			}
		} else {
			messages = append(messages, *reply)
			run.appendNarrative(reply.Content + "\n")
		}

		history.Flush(logPath)
		sleepCtx(ctx, rt.config.RoundDelay)
	}

	log.Printf("🚧 Run %s exhausted its round budget (%d) without completion", task.ID, task.MaxRounds)
	history.Flush(logPath)
	run.finish(StatusExhausted, nil)
	rt.notify(run)
}

// complete finalizes a run when the model calls task_completed: close out
// the narrative with the generated file tree, flush the history log, and
// record the next version for the project. Remaining tool calls of the
// round are never dispatched.
func (rt *Runtime) complete(run *Run, history *HistoryLog, logPath string) {
	task := run.task

	run.appendNarrative("\nTask marked as completed.\nCOMPLETE\n")
	if tree, err := utils.BuildTree(task.Root, nil, nil); err == nil {
		run.appendNarrative("\nGenerated files:\n" + tree)
	}
	history.Flush(logPath)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := rt.db.CountVersions(ctx, task.ProjectID)
	if err != nil {
		log.Printf("⚠️ Error counting versions for project %d: %v", task.ProjectID, err)
	}
	version := storage.Version{
		ProjectID: task.ProjectID,
		Number:    count + 1,
		Changes:   "AI-generated app based on input: " + utils.Truncate(task.Input, 100) + "...",
	}
	if err = rt.db.SaveVersion(ctx, version); err != nil {
		log.Printf("⚠️ Error saving version %d for project %d: %v", version.Number, task.ProjectID, err)
	} else {
		log.Printf("🎉 Run %s completed: project %d version %d", task.ID, task.ProjectID, version.Number)
	}

	run.finish(StatusCompleted, nil)
	rt.notify(run)
}

func (rt *Runtime) notify(run *Run) {
	rt.mu.Lock()
	listeners := make([]func(*Run), len(rt.listeners))
	copy(listeners, rt.listeners)
	rt.mu.Unlock()

	for _, fn := range listeners {
		fn(run)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
