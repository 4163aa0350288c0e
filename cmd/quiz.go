package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sumrise/sumrise/internal/problem"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Answer a few problems on the command line",
	Long: `Generate problems one at a time, read your answer from stdin, and grade it.

A plain-terminal alternative to "practice" that works with any store.`,
	RunE: runQuiz,
}

func init() {
	quizCmd.Flags().StringP("type", "t", "arithmetic", "Problem type: arithmetic, algebra or geometry")
	quizCmd.Flags().StringP("difficulty", "d", "easy", "Difficulty: easy, medium or hard")
	quizCmd.Flags().Int("count", 5, "Number of problems")
}

func runQuiz(cmd *cobra.Command, args []string) error {
	problemType, _ := cmd.Flags().GetString("type")
	difficulty, _ := cmd.Flags().GetString("difficulty")
	count, _ := cmd.Flags().GetInt("count")

	ctx := cmd.Context()
	svc, b, err := newService(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	quiz(ctx, svc, os.Stdin, cmd.OutOrStdout(), problemType, difficulty, count)
	return nil
}

// quiz runs count generate/answer/grade rounds. An empty line is graded as
// a blank answer; the loop stops early when in is exhausted.
func quiz(ctx context.Context, svc *problem.Service, in io.Reader, out io.Writer, problemType, difficulty string, count int) {
	scanner := bufio.NewScanner(in)
	fmt.Fprintf(out, "%d %s %s problems\n\n", count, difficulty, problemType)

	var correct, attempted int
	for i := 1; i <= count; i++ {
		gen, err := svc.Generate(ctx, problemType, difficulty)
		if err != nil {
			fmt.Fprintf(out, "Problem %d: %v\n\n", i, explain(err))
			continue
		}

		fmt.Fprintf(out, "── Problem %d/%d ──\n%s\n", i, count, gen.DisplayText)
		fmt.Fprint(out, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}

		res, err := svc.Grade(ctx, gen.ID, "", strings.TrimSpace(scanner.Text()))
		if err != nil {
			fmt.Fprintf(out, "Grading failed: %v\n\n", explain(err))
			continue
		}
		attempted++
		if res.Correct {
			correct++
		}
		printVerdict(out, res)
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "── Summary: %d/%d correct ──\n", correct, attempted)
}
