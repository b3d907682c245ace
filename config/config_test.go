package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// clearEnv прячет переменные окружения машины, на которой идут тесты.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "MODE", "TELEGRAM_TOKEN", "GROQ_API_KEY", "SERIAL_PORT", "SERIAL_MARKERS",
		"SERIAL_BAUD", "SERIAL_ACK_TIMEOUT", "SERIAL_SETTLE_DELAY", "SERIAL_FORCE_RELEASE",
		"SERIAL_READ_TIMEOUT", "SERIAL_RETRY_BACKOFF", "MQTT_BROKER", "MQTT_TOPIC", "MQTT_CLIENT_ID", "MQTT_QOS",
	} {
		t.Setenv(key, "")
	}
	chdir(t, t.TempDir())
}

// chdir — замена t.Chdir (Go 1.24+) для тулчейна 1.21.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROQ_API_KEY", "key")
	t.Setenv("MODE", "camera")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ModeCamera, cfg.Mode)
	require.Equal(t, 9600, cfg.Serial.BaudRate)
	require.Equal(t, 2500*time.Millisecond, cfg.Serial.AckTimeout)
	require.Equal(t, 2*time.Second, cfg.Serial.SettleDelay)
	require.False(t, cfg.Serial.ForceRelease)
	require.Zero(t, cfg.Serial.RetryBackoff, "rediscovery must run on every frame unless configured")
	require.NoError(t, cfg.Validate())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode: telegram
telegram_token: from-yaml
groq:
  api_key: yaml-key
serial:
  port: /dev/ttyUSB1
  markers: [ch340, cp210]
  ack_timeout: 1s
mqtt:
  broker: localhost:1883
`), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TELEGRAM_TOKEN", "from-env")
	t.Setenv("SERIAL_FORCE_RELEASE", "true")
	t.Setenv("SERIAL_MARKERS", "usbmodem, ttyacm")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.TelegramToken)
	require.Equal(t, "yaml-key", cfg.Groq.APIKey)
	require.Equal(t, "/dev/ttyUSB1", cfg.Serial.Port)
	require.Equal(t, []string{"usbmodem", "ttyacm"}, cfg.Serial.Markers)
	require.Equal(t, time.Second, cfg.Serial.AckTimeout)
	require.True(t, cfg.Serial.ForceRelease)
	require.Equal(t, "localhost:1883", cfg.MQTT.Broker)
	require.Equal(t, "cookbot/frames", cfg.MQTT.Topic)
}

func TestLoad_SerialAndMQTTEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERIAL_READ_TIMEOUT", "500ms")
	t.Setenv("MQTT_CLIENT_ID", "oven-1")
	t.Setenv("MQTT_QOS", "2")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 500*time.Millisecond, cfg.Serial.ReadTimeout)
	require.Equal(t, "oven-1", cfg.MQTT.ClientID)
	require.Equal(t, 2, cfg.MQTT.QoS)
}

func TestLoad_BadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERIAL_BAUD", "fast")

	_, err := Load()
	require.ErrorContains(t, err, "SERIAL_BAUD")
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Groq.APIKey = "key"
	require.ErrorContains(t, cfg.Validate(), "TELEGRAM_TOKEN")

	cfg.TelegramToken = "token"
	require.NoError(t, cfg.Validate())

	cfg.Mode = "gui"
	require.Error(t, cfg.Validate())

	cfg.Mode = ModeCamera
	cfg.Serial.BaudRate = 0
	require.Error(t, cfg.Validate())

	cfg.Serial.BaudRate = 9600
	cfg.Groq.APIKey = ""
	require.ErrorContains(t, cfg.Validate(), "GROQ_API_KEY")
}
