package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/advisor-match/internal/options"
)

var optionsCmd = &cobra.Command{
	Use:   "options [table]",
	Short: "List form option tables",
	Long:  "Without arguments lists the option table names. With a table name prints its values; \"plans\" prints the subscription plans.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			formatTableNames(os.Stdout)
			return nil
		}
		if args[0] == "plans" {
			formatPlans(os.Stdout, options.Plans())
			return nil
		}
		t, ok := options.Lookup(args[0])
		if !ok {
			return eris.Errorf("unknown option table %q (have: %s)", args[0], strings.Join(options.Tables(), ", "))
		}
		formatOptions(os.Stdout, t)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}

func formatTableNames(out io.Writer) {
	for _, name := range options.Tables() {
		_, _ = fmt.Fprintln(out, name)
	}
	_, _ = fmt.Fprintln(out, "plans")
}

func formatOptions(out io.Writer, opts []options.Option) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "VALUE\tLABEL\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "-----\t-----\t-----------")
	for _, o := range opts {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", o.Value, o.Label, o.Description)
	}
	_ = w.Flush()
}

func formatPlans(out io.Writer, plans []options.Plan) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tMONTHLY\tANNUAL\tFEATURES")
	_, _ = fmt.Fprintln(w, "--\t----\t-------\t------\t--------")
	for _, p := range plans {
		name := p.Name
		if p.Recommended {
			name += " *"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%s\n", p.ID, name, p.MonthlyPrice, p.AnnualPrice, strings.Join(p.Features, "; "))
	}
	_ = w.Flush()
}
