package entity

// LinkState состояние последовательного канала с контроллером.
type LinkState string

const (
	LinkDisconnected LinkState = "disconnected" // канала нет
	LinkConnecting   LinkState = "connecting"   // идёт открытие порта
	LinkConnected    LinkState = "connected"    // канал открыт, последняя команда подтверждена
	LinkDegraded     LinkState = "degraded"     // канал открыт, последняя команда без ACK
)

// CanSend сообщает, допустима ли отправка команды в этом состоянии.
func (s LinkState) CanSend() bool {
	return s == LinkConnected || s == LinkDegraded
}
