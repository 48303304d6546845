package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mertwole/bencode-inspect/bencode/value"
)

const indentUnit = "  "

func newShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE [PATH...]",
		Short: "Print the decoded tree, or the subtree at PATH",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, decoded, err := opts.readFile(args[0])
			if err != nil {
				return err
			}

			subtree, err := value.Lookup(decoded, args[1:]...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s, %s\n", args[0], humanize.Bytes(uint64(len(data))))
			writeTree(out, subtree, 0)

			return nil
		},
	}
}

func newGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE PATH...",
		Short: "Print a single element: integers in decimal, text as is, binary as hex",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, decoded, err := opts.readFile(args[0])
			if err != nil {
				return err
			}

			found, err := value.Lookup(decoded, args[1:]...)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), leafString(found))

			return nil
		},
	}
}

func leafString(leaf value.Value) string {
	switch leaf := leaf.(type) {
	case value.ByteString:
		if text, ok := leaf.Text(); ok {
			return text
		}

		return hex.EncodeToString(leaf)
	default:
		return leaf.String()
	}
}

// writeTree prints one entry per line, nesting containers by indentation.
func writeTree(out io.Writer, tree value.Value, depth int) {
	indent := strings.Repeat(indentUnit, depth)

	switch tree := tree.(type) {
	case value.List:
		for i, item := range tree {
			writeEntry(out, indent, fmt.Sprintf("- [%d]", i), item, depth)
		}
	case value.Dict:
		for key, entry := range tree.All() {
			writeEntry(out, indent, value.ByteString(key).String()+":", entry, depth)
		}
	default:
		fmt.Fprintf(out, "%s%s\n", indent, tree)
	}
}

func writeEntry(out io.Writer, indent string, label string, entry value.Value, depth int) {
	switch entry := entry.(type) {
	case value.List:
		if len(entry) == 0 {
			fmt.Fprintf(out, "%s%s []\n", indent, label)
			return
		}
	case value.Dict:
		if entry.Len() == 0 {
			fmt.Fprintf(out, "%s%s {}\n", indent, label)
			return
		}
	default:
		fmt.Fprintf(out, "%s%s %s\n", indent, label, entry)
		return
	}

	fmt.Fprintf(out, "%s%s\n", indent, label)
	writeTree(out, entry, depth+1)
}
