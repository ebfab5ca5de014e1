package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.xml>...",
	Short: "Convert catalog files to CSV",
	Long: `Converts each file in turn. A file that fails does not stop the others;
the command exits non-zero if any file failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if conversion == nil {
		return errors.New("conversion service not configured")
	}

	for _, path := range args {
		if _, err := os.Stat(path); err != nil {
			cmd.PrintErrf("File '%s' does not exist.\n\n", path)
			cmd.PrintErrln(cmd.UsageString())
			return fmt.Errorf("%w: file %q does not exist", domain.ErrInvalidInput, path)
		}
	}

	results, err := conversion.ConvertAll(cmd.Context(), args)
	failed := 0
	for _, r := range results {
		printResult(cmd, r)
		if !r.OK() {
			failed++
		}
	}
	if err != nil {
		return fmt.Errorf("interrupted: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

func printResult(cmd *cobra.Command, r *domain.Result) {
	switch {
	case !r.OK():
		cmd.Printf("FAILED  %s: %v\n", r.Source, r.Err)
	case r.Err != nil:
		cmd.Printf("WARN    %s (%s): %v\n", r.Source, r.Path, r.Err)
	default:
		cmd.Printf("OK      %s (%s) -> %s\n", r.Source, r.Path, strings.Join(r.Outputs, ", "))
	}
}
