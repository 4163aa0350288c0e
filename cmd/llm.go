package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/sumrise/sumrise/internal/llm"
	"github.com/sumrise/sumrise/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged model gateway calls",
	Long: `Inspect model gateway calls recorded in the SQLite database.

Calls are only persisted when running with --store sqlite.`,
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent gateway calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		asJSON, _ := cmd.Flags().GetBool("json")

		return withEvents(func(events store.EventRepo) error {
			list, err := events.QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, list)
			}
			if len(list) == 0 {
				fmt.Fprintln(out, "No gateway calls recorded.")
				return nil
			}
			fmt.Fprintln(out, eventTable(list))
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full transcript of one gateway call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id %q", args[0])
		}
		return withEvents(func(events store.EventRepo) error {
			e, err := events.GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}
			writeEvent(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		return withEvents(func(events store.EventRepo) error {
			ctx := cmd.Context()
			byPurpose, err := events.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("usage by purpose: %w", err)
			}
			byModel, err := events.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("usage by model: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, map[string]any{"purposes": byPurpose, "models": byModel})
			}
			if len(byPurpose) == 0 {
				fmt.Fprintln(out, "No gateway usage recorded.")
				return nil
			}
			fmt.Fprintln(out, purposeTable(byPurpose))
			fmt.Fprintln(out)
			tbl, unpriced := costTable(byModel)
			fmt.Fprintln(out, tbl)
			if len(unpriced) > 0 {
				fmt.Fprintf(out, "No pricing for: %s\n", strings.Join(unpriced, ", "))
			}
			return nil
		})
	},
}

// withEvents opens the SQLite event log for the duration of fn.
func withEvents(fn func(store.EventRepo) error) error {
	s, err := openSQLite(appConfig)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s.EventRepo())
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func eventTable(events []store.LLMRequestEventRecord) string {
	t := newTable("ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
	for _, e := range events {
		ok := "yes"
		if !e.Success {
			ok = "no"
		}
		t.Row(
			strconv.Itoa(e.ID),
			e.Timestamp.Local().Format(timeLayout),
			e.Purpose,
			e.Model,
			strconv.Itoa(e.InputTokens),
			strconv.Itoa(e.OutputTokens),
			strconv.FormatInt(e.LatencyMs, 10),
			ok,
		)
	}
	return t.String()
}

func purposeTable(stats []store.LLMUsageStats) string {
	t := newTable("Purpose", "Calls", "Input", "Output", "Avg ms")
	var calls, in, out int
	for _, st := range stats {
		t.Row(st.Purpose, strconv.Itoa(st.Calls), strconv.Itoa(st.InputTokens),
			strconv.Itoa(st.OutputTokens), strconv.FormatInt(st.AvgLatencyMs, 10))
		calls += st.Calls
		in += st.InputTokens
		out += st.OutputTokens
	}
	t.Row("total", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(out), "")
	return t.String()
}

// costTable prices each model with the built-in price list. Models missing
// from the list are returned separately and excluded from the total.
func costTable(models []store.LLMModelUsage) (string, []string) {
	t := newTable("Model", "Calls", "Input", "Output", "USD")
	var total float64
	var unpriced []string
	for _, mu := range models {
		usd := "?"
		if price := llm.LookupCost(mu.Model); price != nil {
			c := price.Cost(mu.InputTokens, mu.OutputTokens)
			total += c
			usd = formatUSD(c)
		} else {
			unpriced = append(unpriced, mu.Model)
		}
		t.Row(mu.Model, strconv.Itoa(mu.Calls), strconv.Itoa(mu.InputTokens),
			strconv.Itoa(mu.OutputTokens), usd)
	}
	label := "total"
	if len(unpriced) > 0 {
		label = "total (partial)"
	}
	t.Row(label, "", "", "", formatUSD(total))
	return t.String(), unpriced
}

func writeEvent(w io.Writer, e *store.LLMRequestEventRecord) {
	fields := [][2]string{
		{"ID", strconv.Itoa(e.ID)},
		{"Time", e.Timestamp.Local().Format(timeLayout)},
		{"Provider", e.Provider},
		{"Model", e.Model},
		{"Purpose", e.Purpose},
		{"Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
		{"Success", strconv.FormatBool(e.Success)},
	}
	if e.ErrorMessage != "" {
		fields = append(fields, [2]string{"Error", e.ErrorMessage})
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-9s %s\n", f[0]+":", f[1])
	}
	section(w, "request", e.RequestBody)
	section(w, "response", e.ResponseBody)
}

func section(w io.Writer, title, body string) {
	if body == "" {
		body = "(not captured)"
	}
	fmt.Fprintf(w, "\n--- %s ---\n%s\n", title, strings.TrimRight(body, "\n"))
}

func formatUSD(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show calls with this purpose (problem-gen, problem-grade)")
	llmListCmd.Flags().Bool("json", false, "Print JSON instead of a table")
	llmStatsCmd.Flags().Bool("json", false, "Print JSON instead of tables")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
