package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mertwole/bencode-inspect/bencode"
	"github.com/mertwole/bencode-inspect/bencode/deserialize"
)

type checkStatus int

const (
	checkCanonical checkStatus = iota
	checkNonCanonical
	checkInvalid
)

func (status checkStatus) String() string {
	switch status {
	case checkCanonical:
		return "canonical"
	case checkNonCanonical:
		return "valid, not canonical"
	default:
		return "invalid"
	}
}

type checkResult struct {
	status checkStatus
	err    error
}

var errCheckFailed = errors.New("some files failed the check")

func newCheckCommand(opts *rootOptions) *cobra.Command {
	var jobs int
	var strict bool

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate files and report whether each is canonical",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobs < 1 {
				return fmt.Errorf("--jobs must be positive, got %d", jobs)
			}

			results := make([]checkResult, len(args))

			var group errgroup.Group
			group.SetLimit(jobs)

			for i, path := range args {
				group.Go(func() error {
					results[i] = opts.check(path)
					return nil
				})
			}
			_ = group.Wait()

			out := cmd.OutOrStdout()
			failed := false
			for i, result := range results {
				if result.err != nil {
					fmt.Fprintf(out, "%s: %s: %v\n", args[i], result.status, result.err)
				} else {
					fmt.Fprintf(out, "%s: %s\n", args[i], result.status)
				}

				failed = failed || result.status == checkInvalid ||
					(strict && result.status == checkNonCanonical)
			}

			if failed {
				return errCheckFailed
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "Number of files checked concurrently")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat non-canonical files as failures")

	return cmd
}

func (opts *rootOptions) check(path string) checkResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return checkResult{status: checkInvalid, err: err}
	}

	canonical, err := bencode.IsCanonical(data, deserialize.WithMaxDepth(opts.maxDepth))
	if err != nil {
		logrus.WithField("file", path).Debug(err)
		return checkResult{status: checkInvalid, err: err}
	}

	if !canonical {
		return checkResult{status: checkNonCanonical}
	}

	return checkResult{status: checkCanonical}
}
