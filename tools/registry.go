package tools

import (
	"fmt"

	"nutriagent/ledger"
	"nutriagent/nutrition"
)

// Registry maps tool names to implementations
type Registry map[string]Tool

// NewRegistry builds the tool set around a shared ledger service. The
// summarizer is optional; without one the trends tool returns statistics only.
func NewRegistry(resolver FoodResolver, svc *ledger.Service, summarizer nutrition.TrendSummarizer) (*Registry, error) {
	if svc == nil {
		return nil, fmt.Errorf("ledger service is required")
	}

	tools := map[string]Tool{
		"nutrition_lookup":   NewNutritionLookup(resolver, svc),
		"user_tracker":       NewUserTracker(svc),
		"deficit_calculator": NewDeficitCalculator(svc),
		"user_trends":        NewUserTrends(svc, summarizer),
		"report_generator":   NewReportGenerator(),
	}

	registry := Registry(tools)
	return &registry, nil
}

// GetTools returns all tools in the registry as a slice
func (r *Registry) GetTools() []Tool {
	tools := make([]Tool, 0, len(*r))
	for _, tool := range *r {
		tools = append(tools, tool)
	}
	return tools
}

// GetTool retrieves a tool by name from the registry
func (r Registry) GetTool(name string) (Tool, error) {
	tool, exists := r[name]
	if !exists {
		return nil, fmt.Errorf("tool %q not found in registry", name)
	}
	return tool, nil
}
