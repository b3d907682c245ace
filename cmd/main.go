package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gopkg.in/cenkalti/backoff.v1"

	"cook-bot/config"
	telegram "cook-bot/internal/api"
	app "cook-bot/internal/application"
	"cook-bot/internal/container"
	"cook-bot/internal/domain/port"
	"cook-bot/internal/infrastructure/llm"
	"cook-bot/internal/infrastructure/serialport"
	"cook-bot/internal/infrastructure/storage"
	"cook-bot/internal/infrastructure/telemetry"
	"cook-bot/internal/infrastructure/vision"
	"cook-bot/internal/logging"
)

func main() {
	mode := flag.String("mode", "", "camera or telegram (overrides MODE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *mode != "" {
		cfg.Mode = *mode
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	labels, err := vision.LoadLabels(cfg.Detector.LabelsPath)
	if err != nil {
		logger.Fatal("Failed to load labels", zap.Error(err))
	}
	detector, err := vision.NewYOLODetector(cfg.Detector.ModelPath, labels, float32(cfg.Detector.MinConfidence))
	if err != nil {
		logger.Fatal("Failed to create detector", zap.Error(err))
	}
	defer detector.Close()

	generator, err := llm.NewGroqGenerator(groqConfig(cfg.Groq))
	if err != nil {
		logger.Fatal("Failed to create instruction generator", zap.Error(err))
	}

	// Результаты в MQTT публикуются, только если задан брокер
	var publisher port.OutcomePublisher
	if cfg.MQTT.Broker != "" {
		mqttPublisher := newPublisher(ctx, cfg.MQTT, logger)
		defer mqttPublisher.Close()
		publisher = mqttPublisher
	}

	history := storage.NewMemoryOutcomeRepository(cfg.HistorySize)
	appContainer := container.New(hardware(cfg, logger), detector, generator, history, publisher, logger)
	defer func() {
		if err := appContainer.Link.Close(); err != nil {
			logger.Warn("Failed to close serial link", zap.Error(err))
		}
	}()

	switch cfg.Mode {
	case config.ModeCamera:
		err = runCamera(ctx, cfg.Camera, appContainer.Pipeline, logger)
	case config.ModeTelegram:
		var bot *telegram.Bot
		bot, err = telegram.NewBot(cfg.TelegramToken, appContainer.Pipeline, history, logger)
		if err == nil {
			logger.Info("Bot is running...")
			err = bot.Run(ctx)
		}
	}
	if err != nil {
		logger.Error("Stopped with error", zap.Error(err))
		return
	}
	logger.Info("Stopped")
}

// groqConfig накладывает настройки из конфигурации на параметры генерации по умолчанию
func groqConfig(cfg config.GroqConfig) llm.Config {
	out := llm.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		out.BaseURL = cfg.BaseURL
	}
	if cfg.Model != "" {
		out.Model = cfg.Model
	}
	if cfg.Timeout > 0 {
		out.Timeout = cfg.Timeout
	}
	return out
}

// newPublisher подключается к брокеру. При недоступном брокере клиент продолжает
// подключаться в фоне, а Publish пропускает кадры, пока соединения нет.
func newPublisher(ctx context.Context, cfg config.MQTTConfig, logger *zap.Logger) *telemetry.MQTTPublisher {
	p := telemetry.NewMQTTPublisher(telemetry.MQTTConfig{
		Broker:   cfg.Broker,
		ClientID: cfg.ClientID,
		Topic:    cfg.Topic,
		QoS:      byte(cfg.QoS),
	}, logger)
	if err := p.Connect(ctx); err != nil {
		logger.Warn("MQTT unavailable, will keep retrying in background", zap.Error(err))
	}
	return p
}

// hardware собирает параметры канала с контроллером из конфигурации
func hardware(cfg *config.Config, logger *zap.Logger) container.Hardware {
	link := app.DefaultLinkConfig()
	link.PortName = cfg.Serial.Port
	if len(cfg.Serial.Markers) > 0 {
		link.Markers = cfg.Serial.Markers
	}
	link.BaudRate = cfg.Serial.BaudRate
	link.ReadTimeout = cfg.Serial.ReadTimeout
	link.SettleDelay = cfg.Serial.SettleDelay

	var opts []app.LinkOption
	if cfg.Serial.ForceRelease {
		opts = append(opts, app.WithPortReleaser(serialport.NewKillingReleaser(logger)))
	}
	if cfg.Serial.RetryBackoff > 0 {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = cfg.Serial.RetryBackoff
		b.MaxInterval = 12 * cfg.Serial.RetryBackoff
		b.MaxElapsedTime = 0
		b.Reset()
		opts = append(opts, app.WithRediscoveryBackOff(b))
	}

	return container.Hardware{
		Link:       link,
		AckTimeout: cfg.Serial.AckTimeout,
		Enumerator: serialport.Enumerator{USBOnly: cfg.Serial.USBOnly},
		Opener:     serialport.Opener{},
		Options:    opts,
	}
}
