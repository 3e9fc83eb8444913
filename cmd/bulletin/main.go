// Command bulletin extracts market prices from daily retail price range
// bulletins.
//
//	bulletin parse bulletin.pdf --format csv
//	bulletin words bulletin.pdf --page 2
//	bulletin sample sample.pdf
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pyhub-apps/pricebulletin/pkg/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Default.Errorf("%v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bulletin",
		Short:         "Extract market prices from retail price range bulletins",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			if level == "" {
				return nil
			}
			return applyLogLevel(level)
		},
	}
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newParseCmd(), newWordsCmd(), newSampleCmd())
	return root
}

// applyLogLevel sets the process log level, rejecting unknown names.
func applyLogLevel(level string) error {
	switch level {
	case log.LevelDebug, log.LevelInfo, log.LevelWarn, log.LevelError:
		log.SetLevel(level)
		return nil
	}
	return fmt.Errorf("invalid log level: %q", level)
}
