package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Convert XML files dropped into a directory",
	Long: `Watches a directory and converts each .xml file created or written in it,
one at a time, until interrupted. Existing files are left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if dropWatcher == nil {
			return errors.New("watcher not configured")
		}
		return dropWatcher.Watch(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
