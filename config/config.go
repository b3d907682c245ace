package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ModeCamera   = "camera"
	ModeTelegram = "telegram"
)

type Config struct {
	Mode          string `yaml:"mode"`
	LogLevel      string `yaml:"log_level"`
	TelegramToken string `yaml:"telegram_token"`
	HistorySize   int    `yaml:"history_size"`

	Groq     GroqConfig     `yaml:"groq"`
	Serial   SerialConfig   `yaml:"serial"`
	Detector DetectorConfig `yaml:"detector"`
	Camera   CameraConfig   `yaml:"camera"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
}

type GroqConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type SerialConfig struct {
	Port         string        `yaml:"port"`    // явное имя порта
	Markers      []string      `yaml:"markers"` // подстроки для автопоиска
	USBOnly      bool          `yaml:"usb_only"`
	BaudRate     int           `yaml:"baud_rate"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	SettleDelay  time.Duration `yaml:"settle_delay"`
	AckTimeout   time.Duration `yaml:"ack_timeout"`
	ForceRelease bool          `yaml:"force_release"` // убивать процессы, занявшие порт
	RetryBackoff time.Duration `yaml:"retry_backoff"` // 0 (по умолчанию) - искать порт на каждом кадре
}

type DetectorConfig struct {
	ModelPath     string  `yaml:"model_path"`
	LabelsPath    string  `yaml:"labels_path"`
	MinConfidence float64 `yaml:"min_confidence"`
}

type CameraConfig struct {
	DeviceID int     `yaml:"device_id"`
	MaxFPS   float64 `yaml:"max_fps"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
	QoS      int    `yaml:"qos"`
}

// Default возвращает конфигурацию по умолчанию.
func Default() *Config {
	return &Config{
		Mode:        ModeTelegram,
		LogLevel:    "info",
		HistorySize: 50,
		Groq: GroqConfig{
			BaseURL: "https://api.groq.com/openai/v1",
			Model:   "llama-3.1-8b-instant",
			Timeout: 15 * time.Second,
		},
		Serial: SerialConfig{
			BaudRate:    9600,
			ReadTimeout: 2 * time.Second,
			SettleDelay: 2 * time.Second,
			AckTimeout:  2500 * time.Millisecond,
		},
		Detector: DetectorConfig{
			ModelPath:     "yolov8n.onnx",
			MinConfidence: 0.25,
		},
		Camera: CameraConfig{
			MaxFPS: 2,
		},
		MQTT: MQTTConfig{
			ClientID: "cook-bot",
			Topic:    "cookbot/frames",
			QoS:      1,
		},
	}
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv переопределяет значения из переменных окружения.
func applyEnv(cfg *Config) error {
	setString(&cfg.Mode, "MODE")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.TelegramToken, "TELEGRAM_TOKEN")

	setString(&cfg.Groq.APIKey, "GROQ_API_KEY")
	setString(&cfg.Groq.BaseURL, "GROQ_BASE_URL")
	setString(&cfg.Groq.Model, "GROQ_MODEL")

	setString(&cfg.Serial.Port, "SERIAL_PORT")
	if v := os.Getenv("SERIAL_MARKERS"); v != "" {
		cfg.Serial.Markers = splitList(v)
	}

	setString(&cfg.Detector.ModelPath, "DETECTOR_MODEL")
	setString(&cfg.Detector.LabelsPath, "DETECTOR_LABELS")

	setString(&cfg.MQTT.Broker, "MQTT_BROKER")
	setString(&cfg.MQTT.Topic, "MQTT_TOPIC")
	setString(&cfg.MQTT.ClientID, "MQTT_CLIENT_ID")

	var errs []error
	errs = append(errs,
		setInt(&cfg.HistorySize, "HISTORY_SIZE"),
		setInt(&cfg.Serial.BaudRate, "SERIAL_BAUD"),
		setInt(&cfg.Camera.DeviceID, "CAMERA_DEVICE"),
		setBool(&cfg.Serial.USBOnly, "SERIAL_USB_ONLY"),
		setBool(&cfg.Serial.ForceRelease, "SERIAL_FORCE_RELEASE"),
		setInt(&cfg.MQTT.QoS, "MQTT_QOS"),
		setDuration(&cfg.Serial.ReadTimeout, "SERIAL_READ_TIMEOUT"),
		setDuration(&cfg.Serial.AckTimeout, "SERIAL_ACK_TIMEOUT"),
		setDuration(&cfg.Serial.SettleDelay, "SERIAL_SETTLE_DELAY"),
		setDuration(&cfg.Serial.RetryBackoff, "SERIAL_RETRY_BACKOFF"),
		setDuration(&cfg.Groq.Timeout, "GROQ_TIMEOUT"),
		setFloat(&cfg.Detector.MinConfidence, "DETECTOR_MIN_CONFIDENCE"),
		setFloat(&cfg.Camera.MaxFPS, "CAMERA_MAX_FPS"),
	)
	return errors.Join(errs...)
}

// Validate проверяет, что конфигурации хватает для выбранного режима.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeCamera:
	case ModeTelegram:
		if c.TelegramToken == "" {
			return errors.New("TELEGRAM_TOKEN is required in telegram mode")
		}
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}

	if c.Groq.APIKey == "" {
		return errors.New("GROQ_API_KEY is required")
	}
	if c.Serial.BaudRate <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Serial.BaudRate)
	}
	if c.Serial.AckTimeout <= 0 {
		return fmt.Errorf("invalid ack timeout %s", c.Serial.AckTimeout)
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("invalid mqtt qos %d", c.MQTT.QoS)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func setFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
