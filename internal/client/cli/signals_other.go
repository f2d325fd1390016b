//go:build !unix

package cli

import "os"

var foregroundSignals []os.Signal
