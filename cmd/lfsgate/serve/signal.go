//go:build !windows

package serve

import (
	"os"
	"syscall"
)

var (
	// reloadSignals trigger a TLS key pair reload.
	reloadSignals = []os.Signal{syscall.SIGHUP}

	// stopSignals trigger a graceful shutdown.
	stopSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
)
