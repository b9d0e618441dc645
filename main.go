package main

import (
	"fmt"
	"os"

	"github.com/abihost/abihost/cmd"
)

func main() {
	if err := cmd.Command(nil).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
