package textgen

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriagent/nutrition"
)

type fakeBedrockClient struct {
	in  *bedrockruntime.ConverseInput
	out *bedrockruntime.ConverseOutput
	err error
}

func (f *fakeBedrockClient) Converse(ctx context.Context, in *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.in = in
	return f.out, f.err
}

func TestBedrockSummarize(t *testing.T) {
	brc := &fakeBedrockClient{
		out: &bedrockruntime.ConverseOutput{
			Output: &types.ConverseOutputMemberMessage{
				Value: types.Message{
					Role: types.ConversationRoleAssistant,
					Content: []types.ContentBlock{
						&types.ContentBlockMemberText{Value: "  Intake has been steady across both days.  "},
					},
				},
			},
		},
	}

	s := NewBedrock(brc, BedrockOptions{ModelID: "anthropic.claude-3-haiku"})

	report := nutrition.TrendReport{Days: 2}
	history := []nutrition.DayTotals{
		{Date: "2026-08-29", Totals: nutrition.Totals{Calories: 2000}},
		{Date: "2026-08-30", Totals: nutrition.Totals{Calories: 2200}},
	}

	got, err := s.Summarize(context.Background(), report, history)
	require.NoError(t, err)
	assert.Equal(t, "Intake has been steady across both days.", got)

	require.NotNil(t, brc.in)
	assert.Equal(t, "anthropic.claude-3-haiku", aws.ToString(brc.in.ModelId))
	require.Len(t, brc.in.System, 1)
	require.Len(t, brc.in.Messages, 1)
	require.NotNil(t, brc.in.InferenceConfig)
	assert.Equal(t, int32(512), aws.ToInt32(brc.in.InferenceConfig.MaxTokens))

	userBlock, ok := brc.in.Messages[0].Content[0].(*types.ContentBlockMemberText)
	require.True(t, ok)
	assert.Contains(t, userBlock.Value, "Days tracked: 2")
}

func TestBedrockSummarizeError(t *testing.T) {
	brc := &fakeBedrockClient{err: errors.New("throttled")}
	s := NewBedrock(brc, BedrockOptions{ModelID: "anthropic.claude-3-haiku"})

	_, err := s.Summarize(context.Background(), nutrition.TrendReport{Days: 2}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
