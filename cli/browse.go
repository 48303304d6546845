package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mertwole/bencode-inspect/ui"
)

func newBrowseCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse FILE",
		Short: "Explore a file interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, decoded, err := opts.readFile(args[0])
			if err != nil {
				return err
			}

			logFile, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer logFile.Close()

			logrus.SetOutput(logFile)
			defer logrus.SetOutput(cmd.ErrOrStderr())

			return ui.Browse(args[0], decoded)
		},
	}
}
