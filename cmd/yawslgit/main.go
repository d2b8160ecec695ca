package main

import (
	"os"

	"github.com/yawslgit/yawslgit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
