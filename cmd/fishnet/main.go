package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	fishnetcmd "fishnet/internal/cli/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := fishnetcmd.Execute(ctx)
	if err != nil {
		var ee *fishnetcmd.ExitError
		if !errors.As(err, &ee) || ee.Err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	os.Exit(fishnetcmd.ExitCode(err))
}
