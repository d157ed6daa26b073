package main

import (
	"context"
	"os"

	"github.com/rcliao/babylog/internal/cli"
)

func main() {
	if err := cli.RootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
