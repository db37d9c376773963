package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"nutriagent"
	"nutriagent/ledger"
	"nutriagent/nutrition"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
)

// totalsTolerance is how far a reported nutrient total may drift from the
// ledger before the report is rejected. Tool outputs round to one decimal, so
// allow half a unit.
const totalsTolerance = 0.5

// Coordinator is responsible for managing the interaction between the LLM, tools, and output channel.
type Coordinator struct {
	llm            llmClient
	toolProvider   nutriagent.ToolProvider
	ledger         ledgerGetter
	maxIterations  int
	logger         nutriagent.CoordinationLogger
	tracerProvider *trace.TracerProvider
}

// llmClient interface for ollama-specific client
type llmClient interface {
	Invoke(ctx context.Context, prompt Prompt) (Response, error)
}

// ledgerGetter is the slice of the ledger service the coordinator needs to
// cross-check the model's final report against what was actually recorded.
type ledgerGetter interface {
	Get(ctx context.Context, name string) (*ledger.UserLedger, error)
}

// NewCoordinator initializes a new coordinator.
func NewCoordinator(llm llmClient, tp nutriagent.ToolProvider, lg ledgerGetter, maxIter int, log nutriagent.CoordinationLogger, tracerProvider *trace.TracerProvider) *Coordinator {
	return &Coordinator{
		llm:            llm,
		toolProvider:   tp,
		ledger:         lg,
		maxIterations:  maxIter,
		logger:         log,
		tracerProvider: tracerProvider,
	}
}

// Run executes the coordination process for a given task.
func (c *Coordinator) Run(ctx context.Context, task string) (string, error) {
	ctx, span := otel.Tracer(nutriagent.TracerNameOllama).Start(ctx, "Coordinator.Run")
	defer span.End()

	slog.Info("COORDINATOR: Starting run", "task", task)

	prompt, err := NewPrompt(task, c.toolProvider)
	if err != nil {
		return "", fmt.Errorf("failed to apply system prompt: %w", err)
	}

	var finalOut string

	for iter := 0; iter < c.maxIterations; iter++ {
		iterLog := nutriagent.IterationLog{Iteration: iter + 1, Timestamp: time.Now()}

		// Log prompt
		if b, merr := json.Marshal(prompt); merr == nil {
			iterLog.LLMInput = string(b)
			slog.Info("COORDINATOR: Sending prompt to LLM",
				"iteration", iter+1,
				"messages_count", len(prompt.Messages),
				"tools_count", len(prompt.Tools),
				"prompt_size_bytes", len(b),
				"last_message_preview", func() string {
					if len(prompt.Messages) == 0 {
						return "no_content"
					}
					last := prompt.Messages[len(prompt.Messages)-1].Content
					if len(last) > 100 {
						return last[:97] + "..."
					}
					return last
				}(),
			)
		}

		// 1) Invoke model
		res, err := c.llm.Invoke(ctx, prompt)
		if err != nil {
			iterLog.Error = err.Error()
			c.logIteration(iterLog)
			return finalOut, fmt.Errorf("failed to invoke LLM: %w", err)
		}
		iterLog.LLMOutput = res

		slog.Info("COORDINATOR: LLM response received",
			"iteration", iter+1,
			"content_length", len(res.Content),
			"tool_calls", len(res.ToolCalls),
		)

		// 2a) Final JSON path (no tool calls)
		if len(res.ToolCalls) == 0 && res.Content != "" {
			// Accept final only if we have a nutrition_lookup result in history
			if !prompt.HasToolResult("nutrition_lookup") {
				slog.Info("COORDINATOR: Missing required tool results; nudging model to call tools", "iteration", iter+1)

				// Nudge the model to call tools natively
				prompt.Messages = append(prompt.Messages,
					Message{
						Role:    "user",
						Content: "Before finalizing, call nutrition_lookup with the user's name, date, and foods. Then use its results and return ONLY the final JSON object.",
					},
				)
				c.logIteration(iterLog)
				continue
			}

			// We have the required tool results; verify the report before accepting it.
			if problems := c.checkReport(ctx, res.Content); len(problems) > 0 {
				slog.Info("COORDINATOR: Final report failed verification; sending back for repair", "iteration", iter+1, "problems", len(problems))

				feedback, _ := json.Marshal(map[string]any{"errors": problems})
				prompt.Messages = append(prompt.Messages,
					Message{
						Role:    "assistant",
						Content: res.Content,
					},
					Message{
						Role:    "user",
						Content: "Your report has problems: " + string(feedback) + " Fix them using the tool results already provided and return ONLY the corrected JSON object.",
					},
				)
				c.logIteration(iterLog)
				continue
			}

			slog.Info("COORDINATOR: Content looks final; ending run", "iteration", iter+1)
			finalOut = res.Content
			c.logIteration(iterLog)
			break
		}

		// 2b) Tool-call path
		if len(res.ToolCalls) == 0 && res.Content == "" {
			err := fmt.Errorf("no tool_calls and no final content")
			iterLog.Error = err.Error()
			c.logIteration(iterLog)
			return "", err
		}

		var toolCallLogs []nutriagent.ToolCallLog

		toolCalls := dedupeToolCalls(res.ToolCalls)
		if len(toolCalls) < len(res.ToolCalls) {
			slog.Info("COORDINATOR: Deduped tool calls", "requested", len(res.ToolCalls), "kept", len(toolCalls))
		}

		for _, call := range toolCalls {
			slog.Info("COORDINATOR: Handling tool call", "name", call.Name, "iteration", iter+1)

			toolLog := nutriagent.ToolCallLog{Name: call.Name, Input: call.Args}

			tool, err := c.toolProvider.GetTool(call.Name)
			if err != nil {
				toolLog.Error = err.Error()
				toolCallLogs = append(toolCallLogs, toolLog)
				iterLog.ToolCalls = toolCallLogs
				c.logIteration(iterLog)
				return finalOut, fmt.Errorf("failed to get tool %q: %w", call.Name, err)
			}

			result, err := tool.Run(ctx, call.Args)
			if err != nil {
				toolLog.Error = err.Error()
				toolCallLogs = append(toolCallLogs, toolLog)
				iterLog.ToolCalls = toolCallLogs
				c.logIteration(iterLog)
				return "", fmt.Errorf("failed to run tool %q: %w", call.Name, err)
			}

			toolLog.Output = result
			toolCallLogs = append(toolCallLogs, toolLog)

			payload, err := json.Marshal(result)
			if err != nil {
				iterLog.Error = fmt.Sprintf("failed to marshal tool result: %v", err)
				c.logIteration(iterLog)
				return finalOut, fmt.Errorf("failed to marshal tool result: %w", err)
			}

			prompt.Messages = append(
				prompt.Messages,
				Message{
					Role:    "tool",
					Name:    tool.Name(),
					Content: string(payload),
				},
			)

			slog.Info("COORDINATOR: Tool executed, appended message", "name", call.Name, "iteration", iter+1)
		}

		iterLog.ToolCalls = toolCallLogs
		c.logIteration(iterLog)
	}

	return finalOut, nil
}

// checkReport validates the model's final content as a DailyReport and
// cross-checks its totals against the ledger entry for that user and date.
// It returns a list of problems to feed back to the model; empty means the
// report is acceptable.
func (c *Coordinator) checkReport(ctx context.Context, content string) []string {
	var report nutriagent.DailyReport
	if err := json.Unmarshal([]byte(content), &report); err != nil {
		return []string{fmt.Sprintf("final output is not a valid JSON report: %v", err)}
	}
	if !report.IsValid() {
		return []string{"report is missing required fields: user, date, summary, and non-negative totals for calories, protein, carbs, and fat"}
	}

	if c.ledger == nil {
		return nil
	}

	l, err := c.ledger.Get(ctx, report.User)
	if err != nil {
		return []string{fmt.Sprintf("no records found for user %q; log foods with nutrition_lookup first", report.User)}
	}

	entry := l.Entry(report.Date)
	if entry == nil {
		return []string{fmt.Sprintf("no foods recorded for %s; report the date the foods were logged on", report.Date)}
	}

	var problems []string
	for _, n := range nutrition.AllNutrients() {
		want := entry.Totals.Get(n)
		got := report.Totals[string(n)]
		if math.Abs(got-want) > totalsTolerance {
			problems = append(problems, fmt.Sprintf("%s total %.1f does not match recorded %.1f", n, got, want))
		}
	}
	return problems
}

// dedupeToolCalls keeps only the first call per tool name (or name+args hash).
// This exists because the model may be "eager" and call the same tool multiple times with the same arguments.
func dedupeToolCalls(calls []ToolCall) []ToolCall {
	seen := map[string]bool{}
	out := make([]ToolCall, 0, len(calls))
	for _, c := range calls {
		b, _ := json.Marshal(c.Args)
		key := c.Name + ":" + string(b) // per (name,args) uniqueness
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// logIteration logs a step using the configured logger, handling errors gracefully
func (c *Coordinator) logIteration(iteration nutriagent.IterationLog) {
	if c.logger != nil {
		if err := c.logger.LogIteration(iteration); err != nil {
			slog.Error("Failed to log coordination iteration", "error", err, "iteration", iteration.Iteration)
		}
	}
}
