package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"uocatalog-backend/lib/configutil"
	"uocatalog-backend/lib/serviceutil"
	"uocatalog-backend/lib/telemetry"
	"uocatalog-backend/services/scrape"

	"github.com/spf13/cobra"
)

type Config struct {
	Scrape scrape.Config `json:"scrape"`
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "catalogd",
	Short: "Course catalog acquisition batch for the uoCampus class search.",
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Scrape every subject across every known term and persist one grouped snapshot per term.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := setup()
		service := newService()

		err := service.RunBatch(ctx)
		if err != nil {
			serviceutil.Fatal("batch failed", err)
		}
	},
}

var subjectCmd = &cobra.Command{
	Use:   "subject <code>",
	Short: "Scrape a single subject for one term and print the flat records as JSON.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := setup()
		service := newService()

		term, err := cmd.Flags().GetString("term")
		if err != nil {
			serviceutil.Fatal("read term flag", err)
		}

		result, err := service.ScrapeSubject(ctx, args[0], term)
		if err != nil {
			serviceutil.Fatal("scrape failed", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(result)
		if err != nil {
			serviceutil.Fatal("encode result", err)
		}
	},
}

func setup() context.Context {
	telemetry.InitSlog(verbose)

	ctx := serviceutil.SignalContext()
	err := telemetry.SetupFromEnv(ctx, "catalogd")
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no telemetry.json5 found, exporters disabled")
	} else if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	} else {
		go func() {
			<-ctx.Done()
			telemetry.Shutdown(context.Background())
		}()
		telemetry.InstrumentPerfStats(ctx)
	}
	return ctx
}

func newService() scrape.Service {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("no config.json5 found, using defaults")
		cfg = Config{}
	} else if err != nil {
		serviceutil.Fatal("read config", err)
	}

	service, err := scrape.NewService(cfg.Scrape)
	if err != nil {
		serviceutil.Fatal("init scrape service", err)
	}
	return service
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging/instrumentation.")
	subjectCmd.Flags().String("term", "2025 Fall Term", "Display term name to scrape.")

	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(subjectCmd)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
