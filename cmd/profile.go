package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/advisor-match/internal/completion"
	"github.com/sells-group/advisor-match/internal/model"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Advisor profile tools",
}

var profileCompletionCmd = &cobra.Command{
	Use:   "completion <file>",
	Short: "Report section completion for an advisor profile form saved as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := readForm(args[0])
		if err != nil {
			return err
		}
		formatCompletion(os.Stdout, f)
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileCompletionCmd)
	rootCmd.AddCommand(profileCmd)
}

func readForm(path string) (*model.AdvisorProfileForm, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read form")
	}
	var f model.AdvisorProfileForm
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "decode form %s", path)
	}
	return &f, nil
}

func formatCompletion(out io.Writer, f *model.AdvisorProfileForm) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SECTION\tTITLE\tCOMPLETE")
	_, _ = fmt.Fprintln(w, "-------\t-----\t--------")
	for _, s := range completion.NewTracker(f).Sections() {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%t\n", s.ID, s.Title, s.IsCompleted)
	}
	_ = w.Flush()

	rep := completion.Evaluate(f)
	_, _ = fmt.Fprintf(out, "\nCompletion: %.1f%%\n", rep.Percentage)
	for _, tip := range rep.Tips {
		_, _ = fmt.Fprintf(out, "  - %s\n", tip)
	}
}
