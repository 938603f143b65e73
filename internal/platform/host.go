package platform

// Host is the message-handling context: it owns a hidden native window and
// delivers session changes for it to a handler on its own thread.
type Host interface {
	// Start creates the window and installs the session hook. An error means
	// event-driven detection is unavailable and nothing is left installed.
	Start(handler SessionHandler) error
	// Stop tears the hook down, then releases the window. Idempotent.
	Stop()
}
