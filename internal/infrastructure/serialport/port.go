package serialport

import (
	"fmt"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"cook-bot/internal/domain/port"
)

// Enumerator перечисляет системные последовательные порты.
type Enumerator struct {
	// USBOnly оставляет только USB-устройства (нужна детальная информация от ОС)
	USBOnly bool
}

// List возвращает имена портов.
func (e Enumerator) List() ([]string, error) {
	if !e.USBOnly {
		ports, err := serial.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("list ports: %w", err)
		}
		return ports, nil
	}

	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("list usb ports: %w", err)
	}
	names := make([]string, 0, len(details))
	for _, d := range details {
		if d.IsUSB {
			names = append(names, d.Name)
		}
	}
	return names, nil
}

// Opener открывает порты 8N1 с заданной скоростью.
type Opener struct{}

// Open открывает порт и выставляет таймаут чтения.
func (Opener) Open(name string, baudRate int, readTimeout time.Duration) (port.SerialChannel, error) {
	p, err := serial.Open(name, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	if readTimeout > 0 {
		if err := p.SetReadTimeout(readTimeout); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("set read timeout: %w", err)
		}
	}
	return p, nil
}

var (
	_ port.PortEnumerator = Enumerator{}
	_ port.PortOpener     = Opener{}
)
