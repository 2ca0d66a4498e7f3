package main

import (
	"os"

	"confprog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
