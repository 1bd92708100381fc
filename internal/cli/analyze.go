package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quizcoach/internal/analysis"
	"quizcoach/internal/domain"
)

// NewAnalyzeCmd runs the analysis pipeline on a saved result file.
func NewAnalyzeCmd(configPath *string) *cobra.Command {
	var (
		input string
		raw   bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a quiz result file and print study recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfigAndLogger(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			data, err := os.ReadFile(input)
			if err != nil {
				return err
			}
			var req domain.AnalysisRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("parse %s: %w", input, err)
			}
			if err := analysis.ValidateRequest(req); err != nil {
				return err
			}

			analyzer, err := buildAnalyzer(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			if analyzer == nil {
				return fmt.Errorf("%w: no LLM provider or analysis url configured", domain.ErrAnalysisUnavailable)
			}
			result, err := analyzer.Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return analysis.RenderText(out, analysis.Present(result))
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "JSON file with questions, userAnswers, categoryName, score and totalQuestions")
	cmd.Flags().BoolVar(&raw, "json", false, "print the raw analysis JSON")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
