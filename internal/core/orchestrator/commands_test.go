package orchestrator

import (
	"testing"
	"time"

	"biodaemon/internal/core/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands_FIFO(t *testing.T) {
	orchestrator, _, _, _ := newTestOrchestrator(session.ModeEventDriven)

	require.True(t, orchestrator.Send(CommandShowResurrectPrompt))
	require.True(t, orchestrator.Send(CommandExit))

	first, ok := orchestrator.Next(10 * time.Millisecond)
	require.True(t, ok)
	assert.Equal(t, CommandShowResurrectPrompt, first)

	second, ok := orchestrator.Next(10 * time.Millisecond)
	require.True(t, ok)
	assert.Equal(t, CommandExit, second)
}

func TestCommands_NextTimesOut(t *testing.T) {
	orchestrator, _, _, _ := newTestOrchestrator(session.ModeEventDriven)

	started := time.Now()
	_, ok := orchestrator.Next(20 * time.Millisecond)

	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(started), 20*time.Millisecond)
}

func TestCommands_SendOnFullQueueGivesUp(t *testing.T) {
	orchestrator, _, _, _ := newTestOrchestrator(session.ModeEventDriven)

	for i := 0; i < defaultCommandBuffer; i++ {
		require.True(t, orchestrator.Send(CommandShowResurrectPrompt))
	}

	assert.False(t, orchestrator.Send(CommandShowResurrectPrompt))
}

func TestCommands_ExitClearsRunning(t *testing.T) {
	orchestrator, _, _, _ := newTestOrchestrator(session.ModeEventDriven)
	require.True(t, orchestrator.Running())

	orchestrator.Send(CommandExit)

	assert.False(t, orchestrator.Running())
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "show_resurrect_prompt", CommandShowResurrectPrompt.String())
	assert.Equal(t, "exit", CommandExit.String())
	assert.Equal(t, "unknown", Command(0).String())
}
