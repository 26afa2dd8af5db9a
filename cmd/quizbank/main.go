package main

import (
	"fmt"
	"os"

	"github.com/Epistemic-Technology/quizbank/internal/logger"
)

func main() {
	log := logger.NewWriterLogger(os.Stderr, logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	if err := newRootCmd(log, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
