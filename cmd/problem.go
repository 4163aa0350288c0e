package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sumrise/sumrise/internal/problem"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one problem and print its ID and text",
	Long: `Generate one problem and print its ID and display text.

The reference solution is kept in the problem store. Use --store sqlite or
--store redis to grade it from a later invocation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		problemType, _ := cmd.Flags().GetString("type")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		asJSON, _ := cmd.Flags().GetBool("json")

		ctx := cmd.Context()
		svc, b, err := newService(ctx)
		if err != nil {
			return err
		}
		defer b.Close()

		gen, err := svc.Generate(ctx, problemType, difficulty)
		if err != nil {
			return explain(err)
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), gen)
		}
		fmt.Printf("ID: %s\n\n%s\n", gen.ID, gen.DisplayText)
		return nil
	},
}

var gradeCmd = &cobra.Command{
	Use:   "grade <id>",
	Short: "Grade an answer to a stored problem",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		work, _ := cmd.Flags().GetString("work")
		answer, _ := cmd.Flags().GetString("answer")
		asJSON, _ := cmd.Flags().GetBool("json")

		ctx := cmd.Context()
		svc, b, err := newService(ctx)
		if err != nil {
			return err
		}
		defer b.Close()

		res, err := svc.Grade(ctx, args[0], work, answer)
		if err != nil {
			return explain(err)
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), res)
		}
		printVerdict(cmd.OutOrStdout(), res)
		return nil
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently generated problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		ctx := cmd.Context()
		svc, b, err := newService(ctx)
		if err != nil {
			return err
		}
		defer b.Close()

		problems, err := svc.Recent(ctx, limit)
		if err != nil {
			return fmt.Errorf("list problems: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(problems) == 0 {
			fmt.Fprintln(out, "No problems stored.")
			return nil
		}

		t := newTable("ID", "Created", "Topic", "Level", "Title")
		for _, p := range problems {
			t.Row(p.ID, p.CreatedAt.Local().Format(timeLayout), p.Topic, p.Difficulty, p.Title)
		}
		fmt.Fprintln(out, t.String())
		return nil
	},
}

func printVerdict(w io.Writer, res *problem.GradeResult) {
	if res.Correct {
		fmt.Fprintln(w, "\033[32m✓ Correct!\033[0m")
	} else {
		fmt.Fprintln(w, "\033[31m✗ Not quite.\033[0m")
	}
	if res.Feedback != "" {
		fmt.Fprintf(w, "Feedback: %s\n", res.Feedback)
	}
	if res.Hint != nil {
		fmt.Fprintf(w, "Hint: %s\n", *res.Hint)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// explain prefixes service errors with the outcome kind.
func explain(err error) error {
	switch problem.Classify(err) {
	case problem.KindUnknownProblem:
		return fmt.Errorf("no such problem (is the store persistent?): %w", err)
	case problem.KindGateway:
		return fmt.Errorf("model gateway unavailable: %w", err)
	case problem.KindMalformed:
		return fmt.Errorf("model returned an unusable response: %w", err)
	}
	return err
}

func init() {
	generateCmd.Flags().StringP("type", "t", "arithmetic", "Problem type: arithmetic, algebra or geometry")
	generateCmd.Flags().StringP("difficulty", "d", "easy", "Difficulty: easy, medium or hard")
	generateCmd.Flags().Bool("json", false, "Print the result as JSON")

	gradeCmd.Flags().StringP("work", "w", "", "Your working")
	gradeCmd.Flags().StringP("answer", "a", "", "Your final answer")
	gradeCmd.Flags().Bool("json", false, "Print the result as JSON")

	recentCmd.Flags().IntP("limit", "n", 20, "Number of problems to show")
}
