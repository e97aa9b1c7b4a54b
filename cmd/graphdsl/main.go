// Command graphdsl compiles path-query parse trees into traversal programs.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/roach88/graphdsl/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(cli.GetExitCode(err))
}
