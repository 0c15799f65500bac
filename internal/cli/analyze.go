package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"pair-engine/internal/engine"
	"pair-engine/internal/model"
	"pair-engine/internal/parsing"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	warnColor  = color.New(color.FgYellow)
)

type analyzeOptions struct {
	jsonOutput bool
	all        bool
	today      string
}

// analyzeOutput is the --json document.
type analyzeOutput struct {
	TotalValid  int                       `json:"totalValid"`
	TotalErrors int                       `json:"totalErrors"`
	Errors      []model.RowError          `json:"errors"`
	Result      model.PairResult          `json:"result"`
	Overlaps    []model.PairProjectDetail `json:"overlaps,omitempty"`
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a file without starting the server",
		Long:  `Parse the given file ("-" for stdin) and print the pair of employees who worked together the longest.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Also list every overlapping pair per project")
	cmd.Flags().StringVar(&opts.today, "today", "", "Date used for NULL end dates (YYYY-MM-DD, default: current day)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, path string, opts analyzeOptions) error {
	parser := &parsing.Parser{}
	if opts.today != "" {
		today, err := time.Parse(time.DateOnly, opts.today)
		if err != nil {
			return fmt.Errorf("invalid --today %q: %w", opts.today, err)
		}
		parser.Today = func() time.Time { return today }
	}

	var in io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	res, err := parser.Parse(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	out := analyzeOutput{
		TotalValid:  len(res.Valid),
		TotalErrors: len(res.Errors),
		Errors:      res.Errors,
		Result:      engine.Analyze(res.Valid),
	}
	if opts.all {
		out.Overlaps = engine.ProjectOverlaps(res.Valid)
	}

	w := cmd.OutOrStdout()
	if opts.jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	printAnalysis(w, cmd.ErrOrStderr(), out)
	return nil
}

func printAnalysis(w, errw io.Writer, out analyzeOutput) {
	for _, e := range out.Errors {
		warnColor.Fprintf(errw, "line %d: %s: %s\n", e.LineNumber, e.Message, e.RawLine)
	}
	fmt.Fprintf(w, "%d valid rows, %d rejected\n\n", out.TotalValid, out.TotalErrors)

	r := out.Result
	if !r.Found() {
		fmt.Fprintln(w, "No pair of employees worked together on a common project.")
	} else {
		titleColor.Fprintf(w, "Employees %d and %d: %d days together\n", r.EmployeeID1, r.EmployeeID2, r.TotalDaysWorkedTogether)
		fmt.Fprintf(w, "  %-12s %s\n", "PROJECT", "DAYS")
		for _, d := range r.Details {
			fmt.Fprintf(w, "  %-12d %d\n", d.ProjectID, d.DaysWorkedTogether)
		}
	}

	if len(out.Overlaps) == 0 {
		return
	}
	fmt.Fprintln(w)
	titleColor.Fprintln(w, "All overlaps")
	fmt.Fprintf(w, "  %-12s %-12s %-12s %s\n", "PROJECT", "EMPLOYEE 1", "EMPLOYEE 2", "DAYS")
	for _, d := range out.Overlaps {
		fmt.Fprintf(w, "  %-12d %-12d %-12d %d\n", d.ProjectID, d.EmployeeID1, d.EmployeeID2, d.DaysWorkedTogether)
	}
}
