package app

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"cook-bot/internal/domain/entity"
)

const (
	// AckMarker начало строки подтверждения от контроллера.
	AckMarker = "ACK"
	// DefaultAckTimeout сколько ждать подтверждения после записи команды.
	DefaultAckTimeout = 2500 * time.Millisecond

	maxLineLength = 256
)

// CommandProtocol доставляет одну команду и ждёт её подтверждения.
// Повторов нет: решение о повторной отправке принимает вызывающий.
type CommandProtocol struct {
	link       *LinkManager
	ackTimeout time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewCommandProtocol создаёт протокол поверх менеджера канала.
func NewCommandProtocol(link *LinkManager, ackTimeout time.Duration, logger *zap.Logger) *CommandProtocol {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ackTimeout <= 0 {
		ackTimeout = DefaultAckTimeout
	}
	return &CommandProtocol{
		link:       link,
		ackTimeout: ackTimeout,
		logger:     logger.Named("protocol"),
		now:        time.Now,
	}
}

// Send пишет команду одной строкой и, если нужно, ждёт строку ACK.
// true означает: команда записана (без ACK) или подтверждена (с ACK).
func (p *CommandProtocol) Send(h *LinkHandle, req entity.CommandRequest) (bool, error) {
	if h == nil || h != p.link.handle || !p.link.State().CanSend() {
		p.logger.Info("No controller connected, skip send", zap.String("command", req.Payload))
		return false, entity.ErrLinkUnavailable
	}

	if err := h.channel.ResetInputBuffer(); err != nil {
		p.logger.Debug("Failed to reset input buffer", zap.Error(err))
	}

	line := []byte(strings.TrimSpace(req.Payload) + "\n")
	if _, err := h.channel.Write(line); err != nil {
		return p.linkLost(h, req, entity.ErrWriteFailed, err)
	}
	if err := h.channel.Drain(); err != nil {
		return p.linkLost(h, req, entity.ErrWriteFailed, err)
	}

	if !req.RequiresAck {
		return true, nil
	}

	if err := p.awaitAck(h); err != nil {
		if errors.Is(err, entity.ErrAckTimeout) {
			p.logger.Warn("No ACK received", zap.String("command", req.Payload), zap.Duration("timeout", p.ackTimeout))
			p.link.reportNoAck(h)
			return false, err
		}
		return p.linkLost(h, req, entity.ErrReadFailed, err)
	}

	p.link.reportAck(h)
	return true, nil
}

// awaitAck читает канал до строки ACK или до истечения общего таймаута.
// Каждое чтение блокируется не дольше оставшегося времени.
func (p *CommandProtocol) awaitAck(h *LinkHandle) error {
	deadline := p.now().Add(p.ackTimeout)
	buf := make([]byte, 64)
	var pending []byte

	for {
		remaining := deadline.Sub(p.now())
		if remaining <= 0 {
			return entity.ErrAckTimeout
		}
		if err := h.channel.SetReadTimeout(remaining); err != nil {
			return err
		}

		n, err := h.channel.Read(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}

		pending = append(pending, buf[:n]...)
		for {
			i := bytes.IndexByte(pending, '\n')
			if i < 0 {
				break
			}
			resp := strings.TrimSpace(string(bytes.ToValidUTF8(pending[:i], nil)))
			pending = pending[i+1:]
			if strings.HasPrefix(resp, AckMarker) {
				return nil
			}
			if resp != "" {
				p.logger.Debug("Ignoring controller line", zap.String("line", resp))
			}
		}
		if len(pending) > maxLineLength {
			pending = pending[:0]
		}
	}
}

func (p *CommandProtocol) linkLost(h *LinkHandle, req entity.CommandRequest, kind, cause error) (bool, error) {
	err := &entity.LinkError{Kind: kind, Port: h.Port, Err: cause}
	p.logger.Error("Serial I/O error", zap.String("command", req.Payload), zap.Error(err))
	p.link.reportLinkLost(h, err)
	return false, err
}
