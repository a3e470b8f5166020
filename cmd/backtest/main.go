package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/quantor-lab/quantor/internal/backtest"
	"github.com/quantor-lab/quantor/internal/datasource"
	"github.com/quantor-lab/quantor/internal/logger"
	"github.com/quantor-lab/quantor/internal/types"
)

// newLoader picks a loader from the data file extension.
func newLoader(path string, symbol string, log *logger.Logger) (datasource.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return datasource.NewCSVLoader(path, log), nil
	case ".parquet":
		return datasource.NewDuckDBLoader(path, symbol, log)
	default:
		return nil, fmt.Errorf("unsupported data file extension: %s", path)
	}
}

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	dataPath := cmd.String("data")
	outputPath := cmd.String("output")
	journalDir := cmd.String("journal")

	appLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync()

	configData, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	config, err := backtest.LoadConfig(configData)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loader, err := newLoader(dataPath, config.Symbol, appLogger)
	if err != nil {
		return err
	}
	defer loader.Close()

	series, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load series: %w", err)
	}

	strat, err := config.Strategy.NewStrategy()
	if err != nil {
		return fmt.Errorf("failed to build strategy: %w", err)
	}

	engine, err := backtest.NewEngine(config, strat, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	bar := progressbar.NewOptions(len(series),
		progressbar.OptionSetDescription(fmt.Sprintf("Backtesting %s", config.Symbol)),
		progressbar.OptionShowCount(),
	)
	engine.SetProgressFunc(func(current, total int) {
		bar.Set(current)
	})

	result, err := engine.Execute(series)
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	bar.Finish()
	fmt.Println()

	if err := types.WriteResult(outputPath, result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	if journalDir != "" {
		if err := journalResult(result, journalDir, appLogger); err != nil {
			return err
		}
	}

	fmt.Printf("Final value: %.2f (return %.2f%%, %d trades, max drawdown %.2f%%)\n",
		result.Execution.FinalValue,
		result.Metrics.TotalReturn*100,
		result.Metrics.Trades.Total,
		result.Metrics.MaxDrawdown*100,
	)
	fmt.Printf("Result written to %s\n", outputPath)

	return nil
}

// journalResult files the run into a DuckDB journal and exports it to
// Parquet for later analysis.
func journalResult(result *types.BacktestResult, dir string, appLogger *logger.Logger) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create journal dir %s: %w", dir, err)
	}

	journal, err := backtest.NewJournal(appLogger)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer journal.Close()

	if err := journal.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize journal: %w", err)
	}
	if _, err := journal.Record(result); err != nil {
		return fmt.Errorf("failed to journal run: %w", err)
	}
	if err := journal.Export(dir); err != nil {
		return fmt.Errorf("failed to export journal: %w", err)
	}

	return nil
}

func schemaAction(ctx context.Context, cmd *cli.Command) error {
	config := backtest.DefaultConfig()

	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schemaJSON)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run a strategy backtest over a bar series",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the backtest YAML config",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Path to the bar data file (.csv or .parquet)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Path the result YAML is written to",
				Value:    "result.yaml",
				Required: false,
			},
			&cli.StringFlag{
				Name:     "journal",
				Aliases:  []string{"j"},
				Usage:    "Directory to export the run journal to as Parquet (disabled when empty)",
				Required: false,
			},
		},
		Action: backtestAction,
		Commands: []*cli.Command{
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the backtest config",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
