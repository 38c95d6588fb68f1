package collector

import (
	"context"
	"os/exec"
)

// runCommand executes a command and returns its combined output. It exists
// as a seam so tests can exercise the ping collector without spawning
// subprocesses.
var runCommand = func(ctx context.Context, name string, args []string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(out), err
}
