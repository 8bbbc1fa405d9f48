package main

import (
	"os"

	"github.com/xnat/docsync/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
