package main

import (
	"os"

	"github.com/astrbotdevs/astrctl/client/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
