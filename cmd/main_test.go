package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"cook-bot/config"
	"cook-bot/internal/domain/entity"
	"cook-bot/internal/infrastructure/llm"
)

func TestHardware_DefaultsRediscoverEveryFrame(t *testing.T) {
	cfg := config.Default()

	hw := hardware(cfg, zaptest.NewLogger(t))
	require.Empty(t, hw.Options, "no releaser and no rediscovery gate by default")
	require.Equal(t, 9600, hw.Link.BaudRate)
	require.Equal(t, 2500*time.Millisecond, hw.AckTimeout)
}

func TestHardware_OptIns(t *testing.T) {
	cfg := config.Default()
	cfg.Serial.ForceRelease = true
	cfg.Serial.RetryBackoff = 5 * time.Second
	cfg.Serial.Port = "/dev/ttyUSB0"

	hw := hardware(cfg, zaptest.NewLogger(t))
	require.Len(t, hw.Options, 2)
	require.Equal(t, "/dev/ttyUSB0", hw.Link.PortName)
}

func TestNewPublisher_KeptWhenBrokerDown(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	cfg := config.Default().MQTT
	cfg.Broker = "127.0.0.1:1"

	p := newPublisher(ctx, cfg, zaptest.NewLogger(t))
	require.NotNil(t, p)
	require.Error(t, p.Publish(context.Background(), entity.NewFrameResult(time.Now())))
	p.Close()
}

func TestGroqConfig_StartsFromDefaults(t *testing.T) {
	out := groqConfig(config.GroqConfig{APIKey: "key", Model: "llama-3.3-70b-versatile"})
	require.Equal(t, "key", out.APIKey)
	require.Equal(t, "llama-3.3-70b-versatile", out.Model)
	require.Equal(t, llm.DefaultBaseURL, out.BaseURL)
	require.Equal(t, 60, out.MaxTokens)
	require.InDelta(t, 0.15, out.Temperature, 1e-6)
	require.Equal(t, 15*time.Second, out.Timeout)
}
