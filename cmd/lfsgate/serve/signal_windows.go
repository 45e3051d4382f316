package serve

import "os"

var (
	// reloadSignals is empty: the key pair is only loaded at startup.
	reloadSignals []os.Signal

	// stopSignals trigger a graceful shutdown.
	stopSignals = []os.Signal{os.Interrupt}
)
