package orchestrator

import "time"

// Command is a request from the tray to the UI context.
type Command int

const (
	CommandShowResurrectPrompt Command = iota + 1
	CommandExit
)

func (command Command) String() string {
	switch command {
	case CommandShowResurrectPrompt:
		return "show_resurrect_prompt"
	case CommandExit:
		return "exit"
	default:
		return "unknown"
	}
}

const (
	defaultCommandBuffer = 8
	sendTimeout          = 250 * time.Millisecond
)

// Send queues a command for the UI context. It waits at most a short moment
// for room and reports whether the command was queued. Exit also clears the
// running flag so every loop winds down.
func (orchestrator *Orchestrator) Send(command Command) bool {
	if command == CommandExit {
		orchestrator.running.Store(false)
	}
	timer := time.NewTimer(sendTimeout)
	defer timer.Stop()
	select {
	case orchestrator.commands <- command:
		return true
	case <-timer.C:
		orchestrator.logger.WithField("command", command).Warn("command queue full, dropping")
		return false
	}
}

// Next waits up to timeout for the next command.
func (orchestrator *Orchestrator) Next(timeout time.Duration) (Command, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case command := <-orchestrator.commands:
		return command, true
	case <-timer.C:
		return 0, false
	}
}
