package serialport

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"cook-bot/internal/domain/port"
)

// ProcessLister источник процессов; в проде - gopsutil.
type ProcessLister func(ctx context.Context) ([]*process.Process, error)

// KillingReleaser убивает процессы, у которых открыт файл порта.
// Включается только явно (SERIAL_FORCE_RELEASE): процесс может оказаться чужим.
type KillingReleaser struct {
	logger    *zap.Logger
	processes ProcessLister
	selfPID   int32
}

// NewKillingReleaser создаёт освобождатель порта.
func NewKillingReleaser(logger *zap.Logger) *KillingReleaser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KillingReleaser{
		logger:    logger.Named("releaser"),
		processes: process.ProcessesWithContext,
		selfPID:   int32(os.Getpid()),
	}
}

// Release убивает все процессы, кроме текущего, которые держат name открытым.
func (r *KillingReleaser) Release(ctx context.Context, name string) error {
	procs, err := r.processes(ctx)
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	var errs []error
	for _, p := range procs {
		if p.Pid == r.selfPID {
			continue
		}
		files, err := p.OpenFilesWithContext(ctx)
		if err != nil {
			// чужие процессы без прав просто пропускаем
			continue
		}
		if !holds(files, name) {
			continue
		}
		if err := p.KillWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("kill %d: %w", p.Pid, err))
			continue
		}
		r.logger.Warn("Force-killed process holding serial port", zap.Int32("pid", p.Pid), zap.String("port", name))
	}
	return errors.Join(errs...)
}

func holds(files []process.OpenFilesStat, name string) bool {
	for _, f := range files {
		if f.Path == name {
			return true
		}
	}
	return false
}

var _ port.PortReleaser = (*KillingReleaser)(nil)
