package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SerialConfig describes one UART. PollTimeout bounds a single Read, the tty
// driver counts it in tenths of a second, so a reply wait may overrun its
// timeout by up to one PollTimeout. IdleGap is the quiet time that ends a reply.
type SerialConfig struct {
	TTY         string        `mapstructure:"tty"`
	Baud        int           `mapstructure:"baud"`
	PollTimeout time.Duration `mapstructure:"pollTimeout"`
	IdleGap     time.Duration `mapstructure:"idleGap"`
}

// AudioConfig is the BY8301-16P bus
type AudioConfig struct {
	Serial          SerialConfig  `mapstructure:"serial"`
	ResponseTimeout time.Duration `mapstructure:"responseTimeout"`
	Settle          time.Duration `mapstructure:"settle"`
}

// BridgeConfig is the host facing weight bridge line
type BridgeConfig struct {
	Serial       SerialConfig  `mapstructure:"serial"`
	BurstTimeout time.Duration `mapstructure:"burstTimeout"`
}

type ScaleConfig struct {
	Offset float64 `mapstructure:"offset"`
	Factor float64 `mapstructure:"factor"`
}

// GPIOConfig holds line offsets on Chip
type GPIOConfig struct {
	Chip         string      `mapstructure:"chip"`
	TriggerPin   int         `mapstructure:"triggerPin"`
	LEDPin       int         `mapstructure:"ledPin"`
	HX711Clock   int         `mapstructure:"hx711Clock"`
	HX711Data    int         `mapstructure:"hx711Data"`
	Scale        ScaleConfig `mapstructure:"scale"`
	HeartbeatLED bool        `mapstructure:"heartbeatLED"`
}

type WatchdogConfig struct {
	Enable     bool          `mapstructure:"enable"`
	Device     string        `mapstructure:"device"`
	Timeout    time.Duration `mapstructure:"timeout"`
	FeedPeriod time.Duration `mapstructure:"feedPeriod"`
}

type SupervisorConfig struct {
	HeartbeatPeriod time.Duration  `mapstructure:"heartbeatPeriod"`
	Watchdog        WatchdogConfig `mapstructure:"watchdog"`
}

// LumberjackConfig controls the rolling log file, an empty Filename logs to stdout only
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Addr   string `mapstructure:"addr"`
	Path   string `mapstructure:"path"`
}

type Config struct {
	Audio      AudioConfig      `mapstructure:"audio"`
	Bridge     BridgeConfig     `mapstructure:"bridge"`
	GPIO       GPIOConfig       `mapstructure:"gpio"`
	Supervisor SupervisorConfig `mapstructure:"supervisor"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// Load reads configuration from a YAML/TOML/JSON file and BY_ prefixed environment
// variables (BY_AUDIO_SERIAL_TTY for audio.serial.tty). With an empty path a
// by8301.yaml in the working directory or ./configs is used when present, otherwise
// the defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetConfigName("by8301")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix("BY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("audio.serial.tty", "/dev/ttyS0")
	v.SetDefault("audio.serial.baud", 9600)
	v.SetDefault("audio.serial.pollTimeout", "100ms")
	v.SetDefault("audio.serial.idleGap", "10ms")
	v.SetDefault("audio.responseTimeout", "100ms")
	v.SetDefault("audio.settle", "10ms")

	v.SetDefault("bridge.serial.tty", "/dev/ttyS1")
	v.SetDefault("bridge.serial.baud", 115200)
	v.SetDefault("bridge.serial.pollTimeout", "100ms")
	v.SetDefault("bridge.serial.idleGap", "5ms")
	v.SetDefault("bridge.burstTimeout", "100ms")

	v.SetDefault("gpio.chip", "gpiochip0")
	v.SetDefault("gpio.triggerPin", 18)
	v.SetDefault("gpio.ledPin", 25)
	v.SetDefault("gpio.hx711Clock", 3)
	v.SetDefault("gpio.hx711Data", 4)
	v.SetDefault("gpio.scale.offset", -636200)
	v.SetDefault("gpio.scale.factor", 211)
	v.SetDefault("gpio.heartbeatLED", true)

	v.SetDefault("supervisor.heartbeatPeriod", "300ms")
	v.SetDefault("supervisor.watchdog.enable", true)
	v.SetDefault("supervisor.watchdog.device", "/dev/watchdog")
	v.SetDefault("supervisor.watchdog.timeout", "5s")
	v.SetDefault("supervisor.watchdog.feedPeriod", "3s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.filename", "")
	v.SetDefault("logging.file.maxSize", 10)
	v.SetDefault("logging.file.maxBackups", 3)
	v.SetDefault("logging.file.maxAge", 7)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("metrics.enable", false)
	v.SetDefault("metrics.addr", ":9100")
	v.SetDefault("metrics.path", "/metrics")
}

// Validate rejects values the controller cannot run with
func (c *Config) Validate() error {
	if c.Audio.Serial.TTY == "" || c.Bridge.Serial.TTY == "" {
		return fmt.Errorf("serial tty must be set")
	}
	if c.Audio.Serial.Baud <= 0 || c.Bridge.Serial.Baud <= 0 {
		return fmt.Errorf("serial baud rate must be positive")
	}
	for _, sc := range []SerialConfig{c.Audio.Serial, c.Bridge.Serial} {
		if sc.PollTimeout <= 0 {
			return fmt.Errorf("serial %s poll timeout must be positive, got %s", sc.TTY, sc.PollTimeout)
		}
		if sc.IdleGap <= 0 {
			return fmt.Errorf("serial %s idle gap must be positive, got %s", sc.TTY, sc.IdleGap)
		}
	}
	if c.Audio.ResponseTimeout <= 0 {
		return fmt.Errorf("audio response timeout must be positive, got %s", c.Audio.ResponseTimeout)
	}
	if c.Audio.Serial.PollTimeout > c.Audio.ResponseTimeout {
		return fmt.Errorf("audio poll timeout %s must not exceed the response timeout %s", c.Audio.Serial.PollTimeout, c.Audio.ResponseTimeout)
	}
	if c.Bridge.BurstTimeout <= 0 {
		return fmt.Errorf("bridge burst timeout must be positive, got %s", c.Bridge.BurstTimeout)
	}
	if c.Bridge.Serial.PollTimeout > c.Bridge.BurstTimeout {
		return fmt.Errorf("bridge poll timeout %s must not exceed the burst timeout %s", c.Bridge.Serial.PollTimeout, c.Bridge.BurstTimeout)
	}
	if c.GPIO.Scale.Factor == 0 {
		return fmt.Errorf("scale factor must not be zero")
	}
	if c.Supervisor.HeartbeatPeriod <= 0 {
		return fmt.Errorf("heartbeat period must be positive, got %s", c.Supervisor.HeartbeatPeriod)
	}
	wd := c.Supervisor.Watchdog
	if wd.Enable && (wd.FeedPeriod <= 0 || wd.FeedPeriod >= wd.Timeout) {
		return fmt.Errorf("watchdog feed period %s must be positive and shorter than the timeout %s", wd.FeedPeriod, wd.Timeout)
	}
	return nil
}
