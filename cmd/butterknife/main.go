package main

import (
	"os"

	"github.com/majorcontext/butterknife/cmd/butterknife/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
