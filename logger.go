package nutriagent

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CoordinationLogger is the interface for coordinator logging.
type CoordinationLogger interface {
	LogIteration(iteration IterationLog) error
}

// NewCoordinationLogFilePath returns a file path based on a cleaned up model
// name or id so logs produced with different models are easy to tell apart.
func NewCoordinationLogFilePath(model string) string {
	return fmt.Sprintf(
		"./logs/%d.%s.json",
		time.Now().Unix(),
		strings.ReplaceAll(strings.ToLower(model), ":", "_"),
	)
}

// IterationLog represents a single iteration in the coordination process.
type IterationLog struct {
	Iteration int           `json:"iteration"`
	Timestamp time.Time     `json:"timestamp"`
	LLMInput  string        `json:"llm_input,omitempty"`
	LLMOutput any           `json:"llm_output"`
	ToolCalls []ToolCallLog `json:"tool_calls,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// ToolCallLog represents a tool execution within an iteration.
type ToolCallLog struct {
	Name   string         `json:"name"`
	Input  map[string]any `json:"input"`
	Output map[string]any `json:"output"`
	Error  string         `json:"error,omitempty"`
}

// FileCoordinationLogger accumulates iterations and flushes the whole session
// at the end, tagged with a unique session ID.
type FileCoordinationLogger struct {
	sessionID  string
	iterations []IterationLog
	writer     io.Writer
}

// NewFileCoordinationLogger creates a new file-based coordination logger.
func NewFileCoordinationLogger(writer io.Writer) *FileCoordinationLogger {
	return &FileCoordinationLogger{
		sessionID:  uuid.NewString(),
		iterations: make([]IterationLog, 0),
		writer:     writer,
	}
}

// LogIteration buffers an iteration; nothing hits the writer until Flush.
func (fcl *FileCoordinationLogger) LogIteration(iteration IterationLog) error {
	fcl.iterations = append(fcl.iterations, iteration)
	return nil
}

// Flush writes all accumulated iterations to the writer.
func (fcl *FileCoordinationLogger) Flush() error {
	if fcl.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"coordination_session": map[string]any{
			"session_id": fcl.sessionID,
			"timestamp":  time.Now(),
			"iterations": fcl.iterations,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal coordination log: %w", err)
	}

	if _, err := fcl.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write coordination log: %w", err)
	}

	fcl.iterations = fcl.iterations[:0]
	return nil
}

// NoOpCoordinationLogger discards all log entries.
type NoOpCoordinationLogger struct{}

func NewNoOpCoordinationLogger() *NoOpCoordinationLogger {
	return &NoOpCoordinationLogger{}
}

func (nop *NoOpCoordinationLogger) LogIteration(iteration IterationLog) error {
	return nil
}

// StdoutCoordinationLogger logs each iteration as a JSON line to stdout (for
// Lambda/CloudWatch).
type StdoutCoordinationLogger struct{}

func NewStdoutCoordinationLogger() *StdoutCoordinationLogger {
	return &StdoutCoordinationLogger{}
}

func (l *StdoutCoordinationLogger) LogIteration(iteration IterationLog) error {
	data, err := json.Marshal(iteration)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
