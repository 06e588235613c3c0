// Command textselect is the engine's operator tool: one-shot inference
// commands, model image inspection, and the HTTP serving mode.
package main

import (
	"os"

	"github.com/turtacn/textselect/internal/interfaces/cli"
)

func main() {
	os.Exit(cli.Execute())
}
