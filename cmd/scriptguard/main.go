package main

import (
	"os"

	"github.com/Hara602/scriptGuard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
