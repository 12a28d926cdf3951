package main

import (
	"os"

	"github.com/filesdsl/filesdsl/cmd/fdsl/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
