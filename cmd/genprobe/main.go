// Command genprobe is the build wrapper for the genprobe instrumentation
// library.
package main

import (
	"os"

	"github.com/genprobe/genprobe/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
