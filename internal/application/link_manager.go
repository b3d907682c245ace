package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/cenkalti/backoff.v1"

	"cook-bot/internal/domain/entity"
	"cook-bot/internal/domain/port"
)

// DefaultPortMarkers подстроки имён USB-serial портов (macOS и Linux).
var DefaultPortMarkers = []string{"usbmodem", "usbserial", "tty.usb", "ttyacm", "ttyusb"}

// LinkConfig параметры канала с контроллером.
type LinkConfig struct {
	PortName    string        // явное имя порта, пусто - искать по маркерам
	Markers     []string      // маркеры для поиска порта
	BaudRate    int           // скорость, по умолчанию 9600
	ReadTimeout time.Duration // таймаут чтения при открытии
	SettleDelay time.Duration // пауза после открытия, контроллер перезагружается
}

// DefaultLinkConfig возвращает параметры, под которые написана прошивка.
func DefaultLinkConfig() LinkConfig {
	return LinkConfig{
		Markers:     DefaultPortMarkers,
		BaudRate:    9600,
		ReadTimeout: 2 * time.Second,
		SettleDelay: 2 * time.Second,
	}
}

// LinkHandle открытый канал. Владеет им LinkManager.
type LinkHandle struct {
	Port     string
	OpenedAt time.Time
	channel  port.SerialChannel
}

// LinkOption настраивает LinkManager.
type LinkOption func(*LinkManager)

// WithPortReleaser задаёт хук освобождения порта перед открытием.
func WithPortReleaser(r port.PortReleaser) LinkOption {
	return func(m *LinkManager) { m.releaser = r }
}

// WithRediscoveryBackOff ограничивает частоту повторного поиска порта после неудачи.
func WithRediscoveryBackOff(b backoff.BackOff) LinkOption {
	return func(m *LinkManager) { m.retry = b }
}

// WithSleep подменяет ожидание settle delay (для тестов).
func WithSleep(sleep func(time.Duration)) LinkOption {
	return func(m *LinkManager) { m.sleep = sleep }
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) LinkOption {
	return func(m *LinkManager) { m.now = now }
}

// LinkManager отвечает за жизненный цикл последовательного канала.
type LinkManager struct {
	cfg        LinkConfig
	enumerator port.PortEnumerator
	opener     port.PortOpener
	releaser   port.PortReleaser
	retry      backoff.BackOff
	logger     *zap.Logger
	sleep      func(time.Duration)
	now        func() time.Time

	// state читается и из других горутин (статус в боте), остальное - только из пайплайна
	stateMu     sync.RWMutex
	state       entity.LinkState
	portName    string
	handle      *LinkHandle
	nextAttempt time.Time
}

// NewLinkManager создаёт менеджер канала. Канал не открывается до EnsureOpen.
func NewLinkManager(cfg LinkConfig, enumerator port.PortEnumerator, opener port.PortOpener, logger *zap.Logger, opts ...LinkOption) *LinkManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.Markers) == 0 {
		cfg.Markers = DefaultPortMarkers
	}
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = 9600
	}
	m := &LinkManager{
		cfg:        cfg,
		enumerator: enumerator,
		opener:     opener,
		releaser:   noopReleaser{},
		logger:     logger.Named("link"),
		sleep:      time.Sleep,
		now:        time.Now,
		state:      entity.LinkDisconnected,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State возвращает текущее состояние канала.
func (m *LinkManager) State() entity.LinkState {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state
}

func (m *LinkManager) setState(s entity.LinkState, portName string) {
	m.stateMu.Lock()
	m.state = s
	m.portName = portName
	m.stateMu.Unlock()
}

// Port возвращает имя открытого порта или пустую строку.
func (m *LinkManager) Port() string {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.portName
}

// Discover ищет первый порт, имя которого содержит один из маркеров.
func (m *LinkManager) Discover() (string, bool) {
	ports, err := m.enumerator.List()
	if err != nil {
		m.logger.Warn("Failed to enumerate serial ports", zap.Error(err))
		return "", false
	}

	if m.cfg.PortName != "" {
		for _, p := range ports {
			if p == m.cfg.PortName {
				return p, true
			}
		}
		return "", false
	}

	for _, p := range ports {
		name := strings.ToLower(p)
		for _, marker := range m.cfg.Markers {
			if strings.Contains(name, strings.ToLower(marker)) {
				return p, true
			}
		}
	}
	return "", false
}

// Open открывает порт и ждёт, пока контроллер придёт в себя после сброса линии.
func (m *LinkManager) Open(ctx context.Context, name string) (*LinkHandle, error) {
	m.setState(entity.LinkConnecting, name)

	if err := m.releaser.Release(ctx, name); err != nil {
		m.logger.Warn("Failed to release serial port", zap.String("port", name), zap.Error(err))
	}

	ch, err := m.opener.Open(name, m.cfg.BaudRate, m.cfg.ReadTimeout)
	if err != nil {
		m.setState(entity.LinkDisconnected, "")
		return nil, &entity.LinkError{Kind: entity.ErrOpenFailed, Port: name, Err: err}
	}

	m.sleep(m.cfg.SettleDelay)

	m.handle = &LinkHandle{Port: name, OpenedAt: m.now(), channel: ch}
	m.setState(entity.LinkConnected, name)
	m.logger.Info("Controller connected", zap.String("port", name), zap.Int("baud", m.cfg.BaudRate))
	return m.handle, nil
}

// EnsureOpen возвращает открытый канал или делает одну попытку найти и открыть порт.
// nil означает, что команды отправлять некуда.
func (m *LinkManager) EnsureOpen(ctx context.Context) *LinkHandle {
	if m.handle != nil {
		return m.handle
	}

	if m.retry != nil && m.now().Before(m.nextAttempt) {
		return nil
	}

	handle, err := m.connect(ctx)
	if err != nil {
		m.logger.Warn("Controller unavailable, hardware dispatch disabled", zap.Error(err))
		m.scheduleRetry()
		return nil
	}

	if m.retry != nil {
		m.retry.Reset()
	}
	m.nextAttempt = time.Time{}
	return handle
}

func (m *LinkManager) connect(ctx context.Context) (*LinkHandle, error) {
	name, ok := m.Discover()
	if !ok {
		return nil, entity.ErrNoPortFound
	}
	return m.Open(ctx, name)
}

func (m *LinkManager) scheduleRetry() {
	if m.retry == nil {
		return
	}
	wait := m.retry.NextBackOff()
	if wait == backoff.Stop {
		m.retry.Reset()
		wait = m.retry.NextBackOff()
	}
	m.nextAttempt = m.now().Add(wait)
}

// Close закрывает канал, если он открыт.
func (m *LinkManager) Close() error {
	if m.handle == nil {
		return nil
	}
	err := m.handle.channel.Close()
	m.handle = nil
	m.setState(entity.LinkDisconnected, "")
	return err
}

// reportAck вызывается протоколом после подтверждённой команды.
func (m *LinkManager) reportAck(h *LinkHandle) {
	if h != m.handle {
		return
	}
	m.setState(entity.LinkConnected, h.Port)
}

// reportNoAck вызывается протоколом, если подтверждение не пришло.
func (m *LinkManager) reportNoAck(h *LinkHandle) {
	if h != m.handle {
		return
	}
	m.setState(entity.LinkDegraded, h.Port)
}

// reportLinkLost закрывает канал после ошибки ввода-вывода.
// Следующий EnsureOpen заново ищет порт, старый дескриптор не используется.
func (m *LinkManager) reportLinkLost(h *LinkHandle, cause error) {
	if h != m.handle {
		return
	}
	m.logger.Warn("Controller link lost", zap.String("port", h.Port), zap.Error(cause))
	if err := h.channel.Close(); err != nil {
		m.logger.Debug("Close after link loss failed", zap.Error(err))
	}
	m.handle = nil
	m.setState(entity.LinkDisconnected, "")
	m.nextAttempt = time.Time{}
	if m.retry != nil {
		m.retry.Reset()
	}
}

type noopReleaser struct{}

func (noopReleaser) Release(context.Context, string) error { return nil }
