package main

import (
	"fmt"
	"os"

	"github.com/mertwole/bencode-inspect/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
