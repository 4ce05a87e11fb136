package main

import (
	"os"

	"pearlcard/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
