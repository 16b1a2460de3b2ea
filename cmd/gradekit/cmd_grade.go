package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/gradekit/gradekit/internal/models"
	"github.com/gradekit/gradekit/internal/spinner"
	"github.com/spf13/cobra"
)

func newGradeCommand() *cobra.Command {
	var (
		studentPath      string
		idealPath        string
		instructionsPath string
		model            string
		apiKey           string
		jsonOut          bool
	)

	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade a single student solution",
		Long: `Grade a single student solution against an ideal solution and a set of
grading instructions.

All three inputs are plain text files. The model returns a score out of 20
with feedback, improvement suggestions, and a per-question breakdown. A
reply that is not valid JSON is recovered heuristically, so the command
always produces a grade record.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if studentPath == "" || idealPath == "" || instructionsPath == "" {
				return &UsageError{Message: "--student, --ideal, and --instructions are required"}
			}

			student, err := os.ReadFile(studentPath)
			if err != nil {
				return fmt.Errorf("reading student solution: %w", err)
			}

			ideal, err := os.ReadFile(idealPath)
			if err != nil {
				return fmt.Errorf("reading ideal solution: %w", err)
			}

			instructions, err := os.ReadFile(instructionsPath)
			if err != nil {
				return fmt.Errorf("reading grading instructions: %w", err)
			}

			ctx := context.Background()

			app, err := newApp(ctx, false)
			if err != nil {
				return err
			}

			stop := spinner.Start(os.Stderr, "Grading submission...")
			rec := app.eval.Evaluate(ctx, &models.GradingRequest{
				StudentSolution:     string(student),
				IdealSolution:       string(ideal),
				GradingInstructions: string(instructions),
				Model:               model,
				APIKey:              apiKey,
			}, nil)
			stop()

			if jsonOut {
				data, err := json.MarshalIndent(rec, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding grade record: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Print(formatRecord(rec))
			return nil
		},
	}

	cmd.Flags().StringVar(&studentPath, "student", "", "Path to the student solution file")
	cmd.Flags().StringVar(&idealPath, "ideal", "", "Path to the ideal solution file")
	cmd.Flags().StringVar(&instructionsPath, "instructions", "", "Path to the grading instructions file")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model to grade with (default from configuration)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key override for this call only")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the grade record as JSON")

	return cmd
}

// formatRecord renders a grade record for the terminal.
func formatRecord(rec *models.GradeRecord) string {
	var b strings.Builder

	fmt.Fprintln(&b, strings.Repeat("=", 50))
	fmt.Fprintln(&b, " GRADE")
	fmt.Fprintln(&b, strings.Repeat("=", 50))
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Score:  %s / %.0f\n", formatScore(rec.Score), models.MaxScore)
	fmt.Fprintf(&b, "Status: %s\n", rec.Status())
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Feedback:")
	fmt.Fprintf(&b, "  %s\n", rec.Feedback)

	if len(rec.Improvements) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Improvements:")
		for _, imp := range rec.Improvements {
			fmt.Fprintf(&b, "  - %s\n", imp)
		}
	}

	if len(rec.Breakdown) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Breakdown:")
		keys := make([]string, 0, len(rec.Breakdown))
		for k := range rec.Breakdown {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s: %v\n", k, rec.Breakdown[k])
		}
	}

	return b.String()
}

// formatScore prints a score without trailing zeros, so a 17.0 shows
// as 17 and a 17.5 stays 17.5.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
