package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPortFound ни один порт не подошёл под список маркеров.
	ErrNoPortFound = errors.New("no matching serial port")
	// ErrLinkUnavailable канал не открыт, команда не отправлялась.
	ErrLinkUnavailable = errors.New("serial link unavailable")
	// ErrOpenFailed порт найден, но не открылся.
	ErrOpenFailed = errors.New("serial open failed")
	// ErrWriteFailed ошибка записи в порт.
	ErrWriteFailed = errors.New("serial write failed")
	// ErrReadFailed ошибка чтения во время ожидания ACK.
	ErrReadFailed = errors.New("serial read failed")
	// ErrAckTimeout контроллер не подтвердил команду вовремя.
	ErrAckTimeout = errors.New("ack timeout")
	// ErrGenerationFailed сервис генерации текста вернул ошибку.
	ErrGenerationFailed = errors.New("instruction generation failed")
)

// LinkError ошибка канала с указанием порта и причины.
type LinkError struct {
	Kind error  // один из ErrOpenFailed, ErrWriteFailed, ErrReadFailed
	Port string // имя порта
	Err  error  // исходная ошибка ввода-вывода
}

func (e *LinkError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", e.Kind, e.Port)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Port, e.Err)
}

func (e *LinkError) Unwrap() error {
	return e.Err
}

// Is сравнивает по виду ошибки, чтобы работал errors.Is(err, ErrWriteFailed).
func (e *LinkError) Is(target error) bool {
	return e.Kind == target
}
