package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleInstance_SecondAcquireFails(t *testing.T) {
	guard, err := AcquireSingleInstance("BioDaemonTest")
	require.NoError(t, err)
	defer guard.Release()

	_, err = AcquireSingleInstance("BioDaemonTest")
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, guard.Release())
	assert.NoError(t, guard.Release())

	again, err := AcquireSingleInstance("BioDaemonTest")
	require.NoError(t, err)
	assert.Equal(t, guardAddress("BioDaemonTest"), again.Address())
	assert.NoError(t, again.Release())
}

func TestSingleInstance_NilGuard(t *testing.T) {
	var guard *InstanceGuard

	assert.NoError(t, guard.Release())
	assert.Empty(t, guard.Address())
}
