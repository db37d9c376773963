package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"

	"nutriagent"
	"nutriagent/ledger"
	"nutriagent/ledger/storage"
	"nutriagent/nutrition"
	"nutriagent/textgen"
)

type Params struct {
	User string `json:"user"`
	Date string `json:"date,omitempty"` // defaults to the latest logged day
}

type Results struct {
	Report string `json:"report"`
}

func main() {
	fn := func(ctx context.Context, params Params) (Results, error) {
		var modelConfig nutriagent.ModelConfig
		if err := envdecode.Decode(&modelConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}

		// S3 config from env
		s3Bucket := os.Getenv("LEDGER_S3_BUCKET")
		s3Prefix := os.Getenv("LEDGER_S3_PREFIX")
		if s3Bucket == "" {
			return Results{}, fmt.Errorf("missing S3 config: LEDGER_S3_BUCKET must be set")
		}

		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return Results{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		s3Client := s3.NewFromConfig(awsCfg)

		svc := ledger.NewService(storage.NewS3(s3Client, s3Bucket, s3Prefix))
		slog.Info("SETUP: S3 ledger store initialized", "bucket", s3Bucket, "prefix", s3Prefix)

		if strings.TrimSpace(params.User) == "" {
			return Results{}, fmt.Errorf("user is required")
		}

		l, err := svc.Get(ctx, params.User)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				return Results{}, fmt.Errorf("no records for user %q", params.User)
			}
			return Results{}, err
		}

		brc, err := newBedrockRuntimeClient(ctx)
		if err != nil {
			slog.Error("SETUP: Failed to create Bedrock client", "error", err)
			return Results{}, err
		}

		summarizer := textgen.NewBedrock(brc, textgen.BedrockOptions{
			ModelID:   modelConfig.ModelID,
			MaxTokens: modelConfig.MaxTokens,
			TopP:      modelConfig.TopP,
		})

		report := buildReport(ctx, l, params.Date, summarizer)
		return Results{Report: report}, nil
	}

	lambda.Start(fn)
}

// buildReport assembles a full report for one day of a user's history:
// demographics, totals, guideline analysis, and a trend section with a
// model-written narrative when enough history exists.
func buildReport(ctx context.Context, l *ledger.UserLedger, date string, summarizer nutrition.TrendSummarizer) string {
	var problems []string

	if date == "" && len(l.History) > 0 {
		date = l.History[len(l.History)-1].Date
	}

	var totals *nutrition.Totals
	entry := l.Entry(date)
	if entry != nil {
		t := entry.Totals
		totals = &t
	} else {
		problems = append(problems, fmt.Sprintf("No foods logged for %s.", date))
	}

	var deficits string
	if totals != nil && l.Complete() {
		targets, err := nutrition.ComputeTargets(l.Subject())
		if err != nil {
			problems = append(problems, err.Error())
		} else {
			analysis := nutrition.FormatAnalysis(*totals, targets)
			lines := make([]string, 0, len(analysis))
			for _, n := range nutrition.AllNutrients() {
				lines = append(lines, analysis[n])
			}
			deficits = strings.Join(lines, "\n")
		}
	} else if totals != nil {
		problems = append(problems, "Profile is incomplete; cannot compute guideline targets.")
	}

	var trends string
	trendReport, err := nutrition.AnalyzeTrend(l.DayTotals())
	switch {
	case errors.Is(err, nutrition.ErrInsufficientHistory):
		// One day of history is not a trend; leave the section out.
	case err != nil:
		problems = append(problems, err.Error())
	default:
		trends = trendReport.Summary()
		if summarizer != nil {
			narrative, serr := summarizer.Summarize(ctx, trendReport, l.DayTotals())
			if serr != nil {
				slog.Warn("Trend narrative generation failed", "error", serr)
			} else if narrative != "" {
				trends += "\n" + narrative
			}
		}
	}

	return nutrition.AssembleReport(nutrition.ReportParams{
		UserInfo: l.Describe(),
		Totals:   totals,
		Deficits: deficits,
		Trends:   trends,
		Errors:   strings.Join(problems, "\n"),
	})
}

func newBedrockRuntimeClient(ctx context.Context) (*bedrockruntime.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
	if err != nil {
		return nil, err
	}
	return bedrockruntime.NewFromConfig(awsCfg), nil
}
