// Command repoviz is the entry point of the repoviz CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/repoviz/cmd"
	"github.com/huangsam/repoviz/internal/iocache"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cmd.Execute(ctx)
	stop()
	iocache.CloseHistory()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		fmt.Fprintln(os.Stderr, "❌", stopErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
