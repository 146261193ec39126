package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/s0up4200/reelcheck/config"
	"github.com/s0up4200/reelcheck/filter"
	"github.com/s0up4200/reelcheck/omdb"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *omdb.Client
	presets *filter.Presets

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "reelcheck",
	Short: "Search movies and compare critic and audience scores",
	Long: `reelcheck searches OMDb for movies and shows IMDb, Rotten Tomatoes and
Metacritic scores side by side, with links to each site.

An OMDb API key is required. Set omdb.api_key in the config file or the
OMDB_API_KEY environment variable (a .env file in the working directory
is loaded too).`,
	SilenceUsage: true,
}

// SetVersion sets the build information reported by the version and
// update commands
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp loads the configuration and creates the OMDb client,
// logging to stderr
func initializeApp(cmd *cobra.Command, args []string) error {
	return setupApp(os.Stderr)
}

// setupApp loads the configuration, then builds the logger, the OMDb client
// and the filter presets. A nil console logs to logging.file only.
func setupApp(console io.Writer) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging, console)

	client = omdb.NewClient(cfg.OMDb.APIKey, logger,
		omdb.WithBaseURL(cfg.OMDb.BaseURL),
		omdb.WithTimeout(cfg.OMDb.Timeout),
		omdb.WithUserAgent("reelcheck/"+version),
	)
	if !client.Configured() {
		logger.Warn().Msg("OMDb API key is not configured, searches will fail until it is set")
	}

	presets = filter.NewPresets(filter.NewExprCompiler(filter.WithCache(100)))
	if err := presets.RegisterAll(cfg.Filter.Presets); err != nil {
		return err
	}

	return nil
}

// setupLogger configures the zerolog logger. console receives log output
// unless it is nil; logging.file adds a rotating file.
func setupLogger(cfg config.LoggingConfig, console io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	var writers []io.Writer
	if console != nil {
		writers = append(writers, formatWriter(cfg, console, cfg.Color && isTerminal(console)))
	}
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		writers = append(writers, formatWriter(cfg, file, false))
	}

	if len(writers) == 0 {
		return zerolog.Nop()
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func formatWriter(cfg config.LoggingConfig, w io.Writer, color bool) io.Writer {
	if cfg.Format == "json" {
		return w
	}
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// resolveFilter picks the filter for a command: --filter, then --preset,
// then filter.default from the config.
func resolveFilter(expression, preset string) (filter.Filter, error) {
	if expression == "" && preset == "" {
		expression = cfg.Filter.Default
	}
	f, err := presets.Resolve(expression, preset)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	if f == nil {
		return nil, nil
	}
	logger.Debug().Str("filter", f.Expression()).Msg("Applying filter")
	return f, nil
}
