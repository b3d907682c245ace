package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"cook-bot/internal/domain/entity"
	"cook-bot/internal/domain/port"
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 2 * time.Second
)

// MQTTConfig настройки брокера.
type MQTTConfig struct {
	Broker   string // host:port
	ClientID string
	Topic    string // результаты публикуются в Topic/<status>
	QoS      byte
}

// MQTTPublisher публикует результаты обработки кадров в MQTT.
type MQTTPublisher struct {
	cfg    MQTTConfig
	client mqtt.Client
	logger *zap.Logger

	mu        sync.RWMutex
	connected bool
	published uint64
	failed    uint64
}

// NewMQTTPublisher создаёт публикатор; соединение устанавливает Connect.
func NewMQTTPublisher(cfg MQTTConfig, logger *zap.Logger) *MQTTPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MQTTPublisher{cfg: cfg, logger: logger.Named("mqtt")}
}

// Connect подключается к брокеру с автоматическим переподключением.
func (p *MQTTPublisher) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", p.cfg.Broker))
	opts.SetClientID(p.cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(mqtt.Client) {
		p.setConnected(true)
		p.logger.Info("MQTT connection established", zap.String("broker", p.cfg.Broker))
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		p.setConnected(false)
		p.logger.Warn("MQTT connection lost, will auto-reconnect", zap.String("broker", p.cfg.Broker), zap.Error(err))
	}

	p.client = mqtt.NewClient(opts)
	token := p.client.Connect()

	if !token.WaitTimeout(waitBudget(ctx, connectTimeout)) {
		return errors.New("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connection failed: %w", err)
	}

	p.setConnected(true)
	return nil
}

// Publish отправляет результат кадра JSON-сообщением.
func (p *MQTTPublisher) Publish(ctx context.Context, result *entity.FrameResult) error {
	if !p.isConnected() {
		p.countFailure()
		return errors.New("mqtt not connected")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		p.countFailure()
		return fmt.Errorf("marshal frame result: %w", err)
	}

	topic := Topic(p.cfg.Topic, result.Status)
	token := p.client.Publish(topic, p.cfg.QoS, false, payload)
	if !token.WaitTimeout(waitBudget(ctx, publishTimeout)) {
		p.countFailure()
		return errors.New("publish timeout")
	}
	if err := token.Error(); err != nil {
		p.countFailure()
		return fmt.Errorf("publish failed: %w", err)
	}

	p.mu.Lock()
	p.published++
	p.mu.Unlock()

	p.logger.Debug("Frame result published", zap.String("topic", topic), zap.Int("size", len(payload)))
	return nil
}

// Stats возвращает число успешных и неудачных публикаций.
func (p *MQTTPublisher) Stats() (published, failed uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.published, p.failed
}

// Close отключается от брокера и останавливает фоновые попытки подключения.
func (p *MQTTPublisher) Close() {
	if p.client != nil {
		p.client.Disconnect(250)
	}
	p.setConnected(false)

	published, failed := p.Stats()
	p.logger.Info("MQTT publisher closed", zap.Uint64("published", published), zap.Uint64("failed", failed))
}

// Topic собирает топик для статуса кадра.
func Topic(base string, status entity.FrameStatus) string {
	if base == "" {
		base = "cookbot/frames"
	}
	return fmt.Sprintf("%s/%s", base, status)
}

// waitBudget ограничивает ожидание токена дедлайном контекста.
func waitBudget(ctx context.Context, limit time.Duration) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return limit
	}
	left := time.Until(deadline)
	if left < 0 {
		return 0
	}
	if left < limit {
		return left
	}
	return limit
}

func (p *MQTTPublisher) setConnected(v bool) {
	p.mu.Lock()
	p.connected = v
	p.mu.Unlock()
}

func (p *MQTTPublisher) isConnected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connected
}

func (p *MQTTPublisher) countFailure() {
	p.mu.Lock()
	p.failed++
	p.mu.Unlock()
}

var _ port.OutcomePublisher = (*MQTTPublisher)(nil)
