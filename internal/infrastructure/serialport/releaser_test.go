package serialport

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestHolds(t *testing.T) {
	files := []process.OpenFilesStat{
		{Path: "/dev/null", Fd: 0},
		{Path: "/dev/ttyACM0", Fd: 3},
	}
	require.True(t, holds(files, "/dev/ttyACM0"))
	require.False(t, holds(files, "/dev/ttyUSB0"))
	require.False(t, holds(nil, "/dev/ttyACM0"))
}

func TestKillingReleaser_ListError(t *testing.T) {
	r := NewKillingReleaser(zaptest.NewLogger(t))
	r.processes = func(context.Context) ([]*process.Process, error) {
		return nil, errors.New("procfs unavailable")
	}

	err := r.Release(context.Background(), "/dev/ttyACM0")
	require.Error(t, err)
}

func TestKillingReleaser_SkipsSelf(t *testing.T) {
	r := NewKillingReleaser(zaptest.NewLogger(t))
	r.processes = func(context.Context) ([]*process.Process, error) {
		return []*process.Process{{Pid: r.selfPID}}, nil
	}

	require.NoError(t, r.Release(context.Background(), "/dev/ttyACM0"))
}
