package main

import "github.com/strrl/claude-browse/cmd/claude-browse/commands"

func main() {
	commands.Execute()
}
