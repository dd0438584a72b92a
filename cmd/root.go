package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tsiemens/fxreport/app"
	"github.com/tsiemens/fxreport/app/outfmt"
	"github.com/tsiemens/fxreport/config"
	"github.com/tsiemens/fxreport/fx"
	"github.com/tsiemens/fxreport/log"
	"github.com/tsiemens/fxreport/metrics"
)

var cfgFile string

// conf holds defaults, environment and bound flags for every command.
var conf = config.New()

// reportIO is where a report run prints to.
type reportIO struct {
	Out    io.Writer
	Err    io.Writer
	Errors log.ErrorPrinter
}

func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// runReport generates one report and returns the process exit code.
func runReport(ctx context.Context, cfg *config.Config, text string, rio reportIO) int {
	// Logs and the progress bar share the terminal.
	errOut := zerolog.SyncWriter(rio.Err)
	logger := log.Init(cfg.LogLevel, cfg.LogFormat, errOut)
	if cfg.File != "" {
		logger.Debug().Str("file", cfg.File).Msg("Using config file")
	}

	if cfg.MetricsAddr != "" {
		srv := metrics.NewServer(cfg.MetricsAddr)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("Metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	registry := fx.DefaultRegistry(fx.ProviderOptions{
		Timeout:  cfg.Timeout,
		Logger:   logger,
		BaseURLs: cfg.BaseURLs,
	})
	open := outfmt.NewFileOpener(cfg.Format, cfg.OutDir)
	if cfg.Preview {
		fileOpen := open
		open = func(runStart time.Time) (outfmt.ReportWriter, error) {
			w, err := fileOpen(runStart)
			if err != nil {
				return nil, err
			}
			return outfmt.NewMultiWriter(w, outfmt.NewSTDWriter(rio.Out, "Rates")), nil
		}
	}

	ctl := app.NewController(&app.Engine{
		Registry: registry,
		Open:     open,
		Logger:   logger,
	})
	run, err := ctl.Start(ctx, app.RunRequest{
		Text:      text,
		Providers: cfg.Providers,
		Parallel:  cfg.Parallel,
	})
	if err != nil {
		rio.Errors.F("[!] %v\n", err)
		return 1
	}

	bar := newProgressBar(errOut)
	for ev := range run.Events() {
		bar.Update(ev)
	}
	res, err := run.Wait()
	bar.Done(err == nil)

	switch {
	case errors.Is(err, app.ErrInputSyntax):
		rio.Errors.F("[!] %v\n\n%s\n", err, app.InputSyntaxHelp)
		return 1
	case errors.Is(err, context.Canceled):
		rio.Errors.F("[!] Canceled. Partial report left at %s\n", res.Target)
		return 1
	case err != nil:
		rio.Errors.F("[!] %v\n", err)
		return 1
	}

	fmt.Fprintf(rio.Out, "Report written to %s (%d rows", res.Target, len(res.Rows))
	if res.Failures > 0 {
		fmt.Fprintf(rio.Out, ", %d rates reported as 0", res.Failures)
	}
	fmt.Fprintln(rio.Out, ")")
	return 0
}

func runRootCmd(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(conf, cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	text, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := runReport(ctx, cfg, text, reportIO{
		Out:    cmd.OutOrStdout(),
		Err:    cmd.ErrOrStderr(),
		Errors: &log.StderrErrorPrinter{},
	})
	stop()
	if code != 0 {
		os.Exit(code)
	}
}

func cmdName() string {
	binName := os.Args[0]
	return filepath.Base(binName)
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   cmdName() + " [INPUT_FILE]",
	Short: "Foreign exchange rate comparison report tool",
	Long: fmt.Sprintf(
		`A cli tool which fetches exchange rates for a list of currency pairs from
several money transfer services, and writes them side by side into a
spreadsheet report.

Currency pairs are read from INPUT_FILE, or from stdin if it is omitted or "-".
%s

Supported providers are:
 - %s

A provider which cannot be reached, or which does not quote a pair, is
reported with a rate of 0.00.

Settings may also be given in a .fxreport.yaml config file, in a .env file,
or through %s_* environment variables (eg. %s_OUT_DIR).
 `, app.InputSyntaxHelp, strings.Join(config.DefaultProviders, "\n - "),
		config.EnvPrefix, config.EnvPrefix),
	Run:     runRootCmd,
	Args:    cobra.MaximumNArgs(1),
	Version: fx.Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func bindFlag(key, flag string) {
	f := RootCmd.Flags().Lookup(flag)
	if f == nil {
		f = RootCmd.PersistentFlags().Lookup(flag)
	}
	if err := conf.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

func init() {
	cobra.OnInitialize(onInit)

	// Persistent flags, which are global to the app cli
	RootCmd.PersistentFlags().BoolVarP(&log.VerboseEnabled, "verbose", "v", false,
		"Print verbose output")
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Config file (default is ./.fxreport.yaml, then $HOME/.fxreport.yaml)")
	RootCmd.PersistentFlags().String("log-level", "info",
		"Log level: debug, info, warn or error")
	RootCmd.PersistentFlags().String("log-format", log.FormatText,
		"Log format: text or json")

	RootCmd.Flags().StringSliceP("providers", "p", config.DefaultProviders,
		"Providers to query, in report column order. May be provided multiple times.")
	RootCmd.Flags().StringP("out-dir", "o", ".",
		"Directory the report is written to")
	RootCmd.Flags().String("format", string(outfmt.XLSX),
		"Report format: xlsx or csv")
	RootCmd.Flags().Duration("timeout", fx.DefaultTimeout,
		"Timeout of each provider request")
	RootCmd.Flags().Int("parallel", 0,
		"Query up to this many providers of a pair at once (0 queries one at a time)")
	RootCmd.Flags().Bool("preview", false,
		"Also print the report as a table")
	RootCmd.Flags().String("metrics-addr", "",
		"Serve Prometheus metrics on this address while running, eg. :9090")

	bindFlag(config.KeyLogLevel, "log-level")
	bindFlag(config.KeyLogFormat, "log-format")
	bindFlag(config.KeyProviders, "providers")
	bindFlag(config.KeyOutDir, "out-dir")
	bindFlag(config.KeyFormat, "format")
	bindFlag(config.KeyTimeout, "timeout")
	bindFlag(config.KeyParallel, "parallel")
	bindFlag(config.KeyPreview, "preview")
	bindFlag(config.KeyMetricsAddr, "metrics-addr")

	RootCmd.AddCommand(providersCmd, currenciesCmd)
}

// onInit reads in .env files, and performs global or common actions before
// running command functions.
func onInit() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}
