package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mertwole/bencode-inspect/bencode/value"
)

func newJSONCommand(opts *rootOptions) *cobra.Command {
	var indent bool

	cmd := &cobra.Command{
		Use:   "json FILE",
		Short: "Convert a bencoded file to JSON",
		Long: "Convert a bencoded file to JSON. Byte strings holding valid UTF-8 become JSON strings, " +
			"other byte strings become base64 strings.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, decoded, err := opts.readFile(args[0])
			if err != nil {
				return err
			}

			var encoded []byte
			if indent {
				encoded, err = json.MarshalIndent(toJSON(decoded), "", "  ")
			} else {
				encoded, err = json.Marshal(toJSON(decoded))
			}
			if err != nil {
				return fmt.Errorf("failed to encode JSON: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))

			return nil
		},
	}

	cmd.Flags().BoolVar(&indent, "indent", false, "Pretty-print the output")

	return cmd
}

// toJSON maps a bencode tree onto values encoding/json understands.
// Dictionary keys that are not valid UTF-8 are rendered lossily.
func toJSON(tree value.Value) any {
	switch tree := tree.(type) {
	case value.Integer:
		return int64(tree)
	case value.ByteString:
		if text, ok := tree.Text(); ok {
			return text
		}

		return []byte(tree)
	case value.List:
		items := make([]any, 0, len(tree))
		for _, item := range tree {
			items = append(items, toJSON(item))
		}

		return items
	case value.Dict:
		entries := make(map[string]any, tree.Len())
		for key, entry := range tree.All() {
			entries[value.ByteString(key).Lossy()] = toJSON(entry)
		}

		return entries
	}

	return nil
}
