package port

import (
	"context"
	"time"
)

// SerialChannel открытый последовательный канал.
// Read возвращает 0, nil, если за время SetReadTimeout ничего не пришло.
type SerialChannel interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	// Drain ждёт, пока записанные байты уйдут в линию
	Drain() error
	// ResetInputBuffer выбрасывает непрочитанные входящие байты
	ResetInputBuffer() error
	SetReadTimeout(t time.Duration) error
	Close() error
}

// PortEnumerator перечисляет доступные последовательные порты
type PortEnumerator interface {
	List() ([]string, error)
}

// PortOpener открывает порт с заданной скоростью и таймаутом чтения
type PortOpener interface {
	Open(name string, baudRate int, readTimeout time.Duration) (SerialChannel, error)
}

// PortReleaser освобождает порт, занятый другим процессом.
// Вызывается перед открытием; ошибка не мешает попытке открыть порт.
type PortReleaser interface {
	Release(ctx context.Context, name string) error
}
