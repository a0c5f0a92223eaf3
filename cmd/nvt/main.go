// cmd/nvt/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/shashank3959/NVTabular/pkg/config"
	"github.com/shashank3959/NVTabular/pkg/dataset"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	root := &cobra.Command{
		Use:   "nvt",
		Short: "Fit and apply tabular feature-engineering workflows",
		Long: `nvt operates on workflow bundles: directories holding a workflow.yaml
manifest plus the fitted statistics of each stateful operator. Bundles are
produced by programs composing pipelines with the workflow package; nvt
fits them on data, applies them, and inspects them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadConfig()
			if err != nil {
				return err
			}
			logger, err = cfg.BuildLogger()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.AddCommand(newFitCmd(), newTransformCmd(), newShowCmd(), newOpsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// sourceFlags selects the dataset a command reads: a headered CSV file or
// a SQL table over one of the supported drivers.
type sourceFlags struct {
	data    string
	kinds   []string
	table   string
	driver  string
	orderBy string
	columns []string
}

func (s *sourceFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&s.data, "data", "", "path to a headered CSV dataset")
	fs.StringSliceVar(&s.kinds, "kind", nil, "column parse kind as name:kind (string, int, float, bool)")
	fs.StringVar(&s.table, "table", "", "SQL table to read instead of a CSV file")
	fs.StringVar(&s.driver, "driver", "postgres", "SQL driver when --table is set (postgres or snowflake)")
	fs.StringVar(&s.orderBy, "order-by", "", "ordering column for stable SQL paging")
	fs.StringSliceVar(&s.columns, "columns", nil, "columns to select when reading from SQL")
}

// open builds the dataset and returns a cleanup function for any held
// connections.
func (s *sourceFlags) open(ctx context.Context) (dataset.Dataset, func(), error) {
	switch {
	case s.data != "" && s.table != "":
		return nil, nil, fmt.Errorf("--data and --table are mutually exclusive")

	case s.data != "":
		kinds, err := parseKinds(s.kinds)
		if err != nil {
			return nil, nil, err
		}
		ds, err := dataset.NewCSVDataset(s.data,
			dataset.WithChunkRows(cfg.ChunkRows),
			dataset.WithKinds(kinds),
			dataset.WithCSVLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		return ds, func() {}, nil

	case s.table != "":
		var sqlCfg *config.SQLConfig
		var err error
		switch s.driver {
		case "postgres":
			sqlCfg, err = config.LoadPostgresConfig()
		case "snowflake":
			sqlCfg, err = config.LoadSnowflakeConfig()
		default:
			err = fmt.Errorf("unsupported SQL driver %q", s.driver)
		}
		if err != nil {
			return nil, nil, err
		}

		db, err := dataset.OpenSQL(ctx, sqlCfg, logger)
		if err != nil {
			return nil, nil, err
		}
		ds, err := dataset.NewSQLDataset(db, s.table, s.orderBy, s.columns, cfg.ChunkRows, logger)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return ds, func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("either --data or --table is required")
	}
}

// parseKinds converts repeated name:kind flags into a column kind map.
func parseKinds(specs []string) (map[string]dataset.Kind, error) {
	kinds := make(map[string]dataset.Kind, len(specs))
	for _, spec := range specs {
		name, kindName, ok := strings.Cut(spec, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid kind spec %q, expected name:kind", spec)
		}
		kind, err := dataset.ParseKind(kindName)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		kinds[name] = kind
	}
	return kinds, nil
}
