// Command board is a personal kanban board for the terminal.
package main

import "github.com/mesh-intelligence/boards/internal/cli"

func main() {
	cli.Execute()
}
