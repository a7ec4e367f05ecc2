package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/advisor-match/internal/catalog"
	"github.com/sells-group/advisor-match/internal/options"
	"github.com/sells-group/advisor-match/internal/store"
)

var (
	catalogSource string
	catalogPath   string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect, import and export the matching catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog advisors and consumers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		formatCatalog(os.Stdout, cat)
		return nil
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a .yaml, .csv or .xlsx catalog into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cat, err := catalog.ReadFile(args[0])
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate")
		}

		n, err := st.ImportProfiles(ctx, cat.Advisors, cat.Consumers)
		if err != nil {
			return eris.Wrap(err, "import profiles")
		}

		zap.L().Info("catalog import complete",
			zap.String("file", args[0]),
			zap.Int("advisors", len(cat.Advisors)),
			zap.Int("consumers", len(cat.Consumers)),
			zap.Int64("rows", n),
		)
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the catalog to a .yaml or .xlsx file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		if err := catalog.WriteFile(args[0], cat); err != nil {
			return err
		}
		zap.L().Info("catalog exported",
			zap.String("file", args[0]),
			zap.Int("advisors", len(cat.Advisors)),
			zap.Int("consumers", len(cat.Consumers)),
		)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{catalogListCmd, catalogExportCmd} {
		c.Flags().StringVar(&catalogSource, "source", "", "catalog source: mock, file or store (default from config)")
		c.Flags().StringVar(&catalogPath, "path", "", "catalog file when --source=file (default from config)")
	}
	catalogCmd.AddCommand(catalogListCmd, catalogImportCmd, catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}

// loadCatalog reads the catalog from --source, falling back to config.
func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	ctx := cmd.Context()

	source := catalogSource
	if source == "" {
		source = cfg.Catalog.Source
	}
	path := catalogPath
	if path == "" {
		path = cfg.Catalog.Path
	}

	var st store.Store
	if source == "store" {
		s, err := initStore(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "open store")
		}
		defer s.Close() //nolint:errcheck
		st = s
	}

	provider, err := initCatalog(source, path, st)
	if err != nil {
		return nil, err
	}
	return catalog.Load(ctx, provider)
}

func formatCatalog(out io.Writer, cat *catalog.Catalog) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KIND\tID\tNAME\tPROVINCE\tLANGUAGES\tEXPERTISE\tONLINE")
	_, _ = fmt.Fprintln(w, "----\t--\t----\t--------\t---------\t---------\t------")
	for _, a := range cat.Advisors {
		_, _ = fmt.Fprintf(w, "advisor\t%s\t%s\t%s\t%s\t%s\t%t\n",
			a.ID, a.Name, a.Province,
			strings.Join(a.Languages, ","),
			strings.Join(a.Expertise, ","),
			a.Online,
		)
	}
	for _, c := range cat.Consumers {
		_, _ = fmt.Fprintf(w, "consumer\t%s\t%s\t%s\t%s\t%s\t%t\n",
			c.ID, c.Name, c.Province,
			c.PreferredLanguage,
			options.Label(options.TableStartTimelines, c.StartTimeline),
			c.Online,
		)
	}
	_ = w.Flush()
}
