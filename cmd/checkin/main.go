package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Flyrell/checkin/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	if err := cli.Execute(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, cli.Error("error: ")+err.Error())
		os.Exit(1)
	}
}
