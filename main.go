package main

import (
	"fmt"
	"os"

	"github.com/maastricht-university/callsense/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "callsense:", err)
		os.Exit(1)
	}
}
