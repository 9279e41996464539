// tw is the tripwire CLI guarding Claude Code hooks against recursion.
package main

import (
	"os"

	"github.com/xcawolfe-amzn/tripwire/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
