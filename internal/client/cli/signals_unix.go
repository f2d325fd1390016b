//go:build unix

package cli

import (
	"os"
	"syscall"
)

// foregroundSignals make the daemon sync right away
var foregroundSignals = []os.Signal{syscall.SIGUSR1}
