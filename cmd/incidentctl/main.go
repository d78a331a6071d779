// Package main provides the entry point for the incidentctl operator CLI.
package main

import (
	"os"

	"github.com/ashokkumar81090/Hackathon/cmd/incidentctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
