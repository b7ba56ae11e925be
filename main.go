package main

import (
	"os"

	"github.com/dviselman/pconsole/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
