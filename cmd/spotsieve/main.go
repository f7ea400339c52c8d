package main

import (
	"fmt"
	"os"

	"spotsieve/cmd/spotsieve/app"
	"spotsieve/pkg/signals"
)

func main() {
	ctx := signals.SetupSignalHandler()
	if err := app.NewSpotsieveCommand(ctx).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(app.ExitCode(err))
	}
}
