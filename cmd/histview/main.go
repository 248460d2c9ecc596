package main

import (
	"fmt"
	"os"

	"github.com/roach88/histview/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "histview:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
