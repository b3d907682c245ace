package entity

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinkErrorIs(t *testing.T) {
	err := error(&LinkError{Kind: ErrWriteFailed, Port: "/dev/ttyACM0", Err: io.ErrClosedPipe})

	require.True(t, errors.Is(err, ErrWriteFailed))
	require.True(t, errors.Is(err, io.ErrClosedPipe))
	require.False(t, errors.Is(err, ErrOpenFailed))
	require.Contains(t, err.Error(), "/dev/ttyACM0")
}

func TestLinkStateCanSend(t *testing.T) {
	require.True(t, LinkConnected.CanSend())
	require.True(t, LinkDegraded.CanSend())
	require.False(t, LinkConnecting.CanSend())
	require.False(t, LinkDisconnected.CanSend())
}
