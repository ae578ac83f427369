package main

import (
	"context"
	"os"

	"github.com/akarakai/imgpdf/pkg/logger"
	"github.com/charmbracelet/fang"
)

const version = "0.1.0"

func main() {
	root := newRootCmd()

	err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	)
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
