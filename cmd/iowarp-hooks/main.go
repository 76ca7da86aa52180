// Command iowarp-hooks installs and removes IOWarp hook sets for Claude Code
// and OpenCode, wiring hook scripts into the host's settings document.
package main

import "github.com/iowarp/iowarp-hooks/internal/cmd"

func main() {
	cmd.Execute()
}
