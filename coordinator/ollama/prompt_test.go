package ollama

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriagent/ledger"
	"nutriagent/ledger/storage"
	"nutriagent/nutritionix"
	"nutriagent/tools"
)

type stubResolver struct{}

func (stubResolver) Resolve(ctx context.Context, items []string) (nutritionix.Resolution, error) {
	return nutritionix.Resolution{}, nil
}

func TestPrompt_New(t *testing.T) {
	svc := ledger.NewService(storage.NewMemory())
	registry, err := tools.NewRegistry(stubResolver{}, svc, nil)
	require.NoError(t, err)

	// Create prompt
	prompt, err := NewPrompt("Log a banana and two eggs for bob", registry)
	require.NoError(t, err)

	// Verify basic structure
	assert.Len(t, prompt.Messages, 2, "Should have system and user messages")
	assert.Equal(t, "system", prompt.Messages[0].Role)
	assert.Equal(t, "user", prompt.Messages[1].Role)
	assert.Equal(t, "Log a banana and two eggs for bob", prompt.Messages[1].Content)

	// Verify tools are in Ollama format
	assert.Len(t, prompt.Tools, 5, "Should have 5 tools")

	// Check tool names
	toolNames := make(map[string]bool)
	for _, tool := range prompt.Tools {
		toolNames[tool.Function.Name] = true
		assert.Equal(t, "function", tool.Type, "Tool type should be 'function'")
		assert.NotEmpty(t, tool.Function.Description, "Tool should have description")
		assert.NotNil(t, tool.Function.Parameters, "Tool should have parameters")
	}

	assert.True(t, toolNames["nutrition_lookup"], "Should have nutrition_lookup tool")
	assert.True(t, toolNames["user_tracker"], "Should have user_tracker tool")
	assert.True(t, toolNames["deficit_calculator"], "Should have deficit_calculator tool")
	assert.True(t, toolNames["user_trends"], "Should have user_trends tool")
	assert.True(t, toolNames["report_generator"], "Should have report_generator tool")

	// Verify nutrition_lookup tool structure
	var lookupTool *Tool
	for i := range prompt.Tools {
		if prompt.Tools[i].Function.Name == "nutrition_lookup" {
			lookupTool = &prompt.Tools[i]
			break
		}
	}
	require.NotNil(t, lookupTool, "Should find nutrition_lookup tool")

	// Check parameters structure
	params := lookupTool.Function.Parameters
	assert.Equal(t, "object", params["type"])
	assert.NotNil(t, params["properties"])
	assert.NotEmpty(t, params["required"], "nutrition_lookup has required parameters")

	// Verify the tool can be marshaled to the expected JSON format
	toolJSON, err := json.MarshalIndent(lookupTool, "", "  ")
	require.NoError(t, err)

	// Parse it back to verify structure
	var parsedTool map[string]interface{}
	err = json.Unmarshal(toolJSON, &parsedTool)
	require.NoError(t, err)

	assert.Equal(t, "function", parsedTool["type"])
	function := parsedTool["function"].(map[string]interface{})
	assert.Equal(t, "nutrition_lookup", function["name"])
}

func TestPrompt_HasToolResult(t *testing.T) {
	svc := ledger.NewService(storage.NewMemory())
	registry, err := tools.NewRegistry(stubResolver{}, svc, nil)
	require.NoError(t, err)

	prompt, err := NewPrompt("Log my foods", registry)
	require.NoError(t, err)

	t.Run("no tool results", func(t *testing.T) {
		assert.False(t, prompt.HasToolResult("nutrition_lookup"))
		assert.False(t, prompt.HasToolResult("user_trends"))
	})

	t.Run("with tool results", func(t *testing.T) {
		// Add a message with tool result (using Ollama's role:"tool" format)
		prompt.Messages = append(prompt.Messages, Message{
			Role:    "tool",
			Name:    "nutrition_lookup",
			Content: `{"totals":{"calories":245}}`,
		})

		assert.True(t, prompt.HasToolResult("nutrition_lookup"))
		assert.False(t, prompt.HasToolResult("user_trends"))
	})
}
