package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/projectdiscovery/gologger"

	"github.com/espressojuice/cloudmonitor/internal/runner"
)

func main() {
	options := runner.ParseOptions()
	scannerRunner, err := runner.NewRunner(options)
	if err != nil {
		gologger.Fatal().Msgf("Could not create runner: %s\n", err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup close handler
	go func() {
		<-c
		fmt.Println("\r- Ctrl+C pressed in Terminal, Exiting...")
		scannerRunner.Close()
		cancel()
	}()

	err = scannerRunner.Run(ctx)
	if err != nil {
		gologger.Fatal().Msgf("Could not run scanner: %s\n", err)
	}
}
