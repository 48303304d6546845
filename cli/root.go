package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mertwole/bencode-inspect/bencode/deserialize"
	"github.com/mertwole/bencode-inspect/bencode/value"
)

const defaultLogFileName = "log"

type rootOptions struct {
	maxDepth int
	logLevel string
	logFile  string
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "bencode-inspect COMMAND",
		Short:         "Inspect and canonicalize bencoded files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(opts.logLevel)
			if err != nil {
				return fmt.Errorf("failed to parse log level: %w", err)
			}

			logrus.SetLevel(level)
			logrus.SetOutput(cmd.ErrOrStderr())

			return nil
		},
	}

	opts.installFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newShowCommand(opts),
		newGetCommand(opts),
		newJSONCommand(opts),
		newCanonicalizeCommand(opts),
		newCheckCommand(opts),
		newBrowseCommand(opts),
	)

	return cmd
}

// installFlags adds the options shared by every command to flags.
func (opts *rootOptions) installFlags(flags *pflag.FlagSet) {
	flags.IntVar(&opts.maxDepth, "max-depth", deserialize.DefaultMaxDepth, "Maximum nesting depth accepted while decoding and encoding")
	flags.StringVar(&opts.logLevel, "log-level", "warning", "Log level (debug, info, warning, error)")
	flags.StringVar(&opts.logFile, "log-file", defaultLogFileName, "Log destination while the interactive browser runs")
}

func (opts *rootOptions) readFile(path string) ([]byte, value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	decoded, err := deserialize.Decode(data, deserialize.WithMaxDepth(opts.maxDepth))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"file": path,
		"size": humanize.Bytes(uint64(len(data))),
		"kind": decoded.Kind(),
	}).Debug("decoded file")

	return data, decoded, nil
}
