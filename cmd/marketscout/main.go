package main

import (
	"fmt"
	"os"

	"marketscout/cmd/handlers"
	"marketscout/internal/logger"
)

func main() {
	logger.Init()
	if err := handlers.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
