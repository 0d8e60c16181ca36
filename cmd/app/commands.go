package main

import (
	"github.com/urfave/cli/v3"
)

// getCommands returns all CLI commands for the application.
func getCommands(version string) []*cli.Command {
	var commands []*cli.Command

	commands = append(commands, getSystemCommands(version)...)
	commands = append(commands, getKeyCommands()...)
	commands = append(commands, getAuthCommands()...)

	return commands
}
