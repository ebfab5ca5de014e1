// Package cli provides the bmeconv command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/custodia-labs/bmeconv/internal/adapters/driven/bmecat"
	"github.com/custodia-labs/bmeconv/internal/adapters/driven/config/file"
	"github.com/custodia-labs/bmeconv/internal/adapters/driven/csvout"
	"github.com/custodia-labs/bmeconv/internal/core/domain"
	"github.com/custodia-labs/bmeconv/internal/core/ports/driving"
	"github.com/custodia-labs/bmeconv/internal/core/services"
	"github.com/custodia-labs/bmeconv/internal/detect"
	"github.com/custodia-labs/bmeconv/internal/flatten"
	"github.com/custodia-labs/bmeconv/internal/logger"
	"github.com/custodia-labs/bmeconv/internal/xmltree"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// legacyDebugFlag is the single-dash debug switch of the original tool.
const legacyDebugFlag = "-debug"

var (
	configPath       string
	outputDir        string
	debugMode        bool
	fallbackEncoding string
	noLogFile        bool
)

// Services are built once per invocation in setup.
var (
	conversion  driving.ConversionService
	dropWatcher driving.Watcher
)

// buildServices wires the adapters into the services. Replaced in tests.
var buildServices = defaultServices

var rootCmd = &cobra.Command{
	Use:   "bmeconv <file.xml>...",
	Short: "Convert BMEcat (ETIM) XML catalogs to CSV",
	Long: `Converts BMEcat (ETIM) catalog files and other XML product exports to CSV.

The encoding and dialect of each file are detected from its content. BMEcat
catalogs produce <name>_header.csv and <name>_products.csv, other XML files
produce <name>.csv from their item, SHOPITEM or PRODUCT elements. Output and
a per-file log go to the output directory.

Processing can be interrupted with Ctrl+C.`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runConvert(cmd, args)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file (default ./"+file.DefaultFileName+")")
	flags.StringVarP(&outputDir, "output", "o", "", "output directory (default \""+domain.DefaultOutputDir+"\")")
	flags.BoolVarP(&debugMode, "debug", "d", false, "enable debug logging")
	flags.StringVar(&fallbackEncoding, "fallback-encoding", "", "encoding to use when no candidate decodes a file")
	flags.BoolVar(&noLogFile, "no-log-file", false, "do not write <name>_log.txt files")
}

// Execute runs the root command with the process arguments.
func Execute(ctx context.Context) error {
	rootCmd.SetArgs(normalizeArgs(os.Args[1:]))
	return rootCmd.ExecuteContext(ctx)
}

// normalizeArgs maps the legacy -debug switch onto --debug.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if arg == legacyDebugFlag {
			arg = "--debug"
		}
		out[i] = arg
	}
	return out
}

// setup resolves settings from defaults, the config file and flags, then
// builds the logger and services.
func setup(cmd *cobra.Command, _ []string) error {
	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	settings, err := file.Settings(store)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		settings.OutputDir = outputDir
	}
	if debugMode {
		settings.LogLevel = domain.LogLevelDebug
	}
	if flags.Changed("fallback-encoding") {
		settings.FallbackEncoding = fallbackEncoding
	}
	if noLogFile {
		settings.LogToFile = false
	}

	if settings.FallbackEncoding != "" {
		if _, err := detect.Lookup(settings.FallbackEncoding); err != nil {
			return fmt.Errorf("fallback encoding: %w", err)
		}
	}

	log := logger.New(logger.Options{
		Level:   string(settings.LogLevel),
		Console: cmd.ErrOrStderr(),
	})
	conversion, dropWatcher = buildServices(settings, log)
	return nil
}

func defaultServices(settings domain.Settings, log *zap.Logger) (driving.ConversionService, driving.Watcher) {
	writer := csvout.New()
	converter := services.NewConverter(
		detect.NewProber(),
		detect.NewSniffer(),
		xmltree.New(),
		flatten.New(settings.ProductTags...),
		writer,
		bmecat.New(writer),
		settings,
		log,
	)
	return converter, services.NewDirWatcher(converter, 0, log)
}
