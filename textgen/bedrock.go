package textgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"nutriagent/nutrition"
)

type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type BedrockOptions struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// Bedrock generates trend narratives through the Bedrock Converse API.
type Bedrock struct {
	brc  bedrockRuntimeClient
	opts BedrockOptions
}

func NewBedrock(brc bedrockRuntimeClient, opts BedrockOptions) *Bedrock {
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 512
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.2
	}
	if opts.TopP == 0 {
		opts.TopP = 0.9
	}
	return &Bedrock{brc: brc, opts: opts}
}

func (b *Bedrock) Summarize(ctx context.Context, report nutrition.TrendReport, history []nutrition.DayTotals) (string, error) {
	out, err := b.brc.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(b.opts.ModelID),
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: systemPrompt},
		},
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: buildPrompt(report, history)},
				},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(b.opts.MaxTokens),
			Temperature: aws.Float32(b.opts.Temperature),
			TopP:        aws.Float32(b.opts.TopP),
		},
	})
	if err != nil {
		return "", fmt.Errorf("converse: %w", err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("unexpected converse output type %T", out.Output)
	}
	var parts []string
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			parts = append(parts, text.Value)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}
