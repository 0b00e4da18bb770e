package main

import (
	"os"

	"github.com/felipe-codebit/prototipo-zap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
