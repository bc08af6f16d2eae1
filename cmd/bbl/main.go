package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/open-cli-collective/bbcode-lint/internal/cmd/cmdutil"
	"github.com/open-cli-collective/bbcode-lint/internal/cmd/lint"
	"github.com/open-cli-collective/bbcode-lint/internal/cmd/root"
)

func main() {
	cmd := root.NewCmdRoot()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, lint.ErrProblems) && !errors.Is(err, cmdutil.ErrSilent) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
