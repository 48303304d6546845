package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mertwole/bencode-inspect/bencode/serialize"
)

func newCanonicalizeCommand(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "canonicalize FILE",
		Short: "Re-encode a file in canonical form",
		Long: "Re-encode a file in canonical form: dictionary keys sorted, duplicate keys collapsed. " +
			"Writes to standard output unless --output is set.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, decoded, err := opts.readFile(args[0])
			if err != nil {
				return err
			}

			canonical, err := serialize.EncodeBytes(decoded, serialize.WithMaxDepth(opts.maxDepth))
			if err != nil {
				return fmt.Errorf("failed to encode %s: %w", args[0], err)
			}

			logrus.WithFields(logrus.Fields{
				"file":      args[0],
				"canonical": bytes.Equal(data, canonical),
				"before":    humanize.Bytes(uint64(len(data))),
				"after":     humanize.Bytes(uint64(len(canonical))),
			}).Info("canonicalized")

			if output == "" {
				_, err = cmd.OutOrStdout().Write(canonical)
				return err
			}

			err = os.WriteFile(output, canonical, 0666)
			if err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file")

	return cmd
}
