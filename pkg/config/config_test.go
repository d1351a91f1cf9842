package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyS0", cfg.Audio.Serial.TTY)
	require.Equal(t, 9600, cfg.Audio.Serial.Baud)
	require.Equal(t, 100*time.Millisecond, cfg.Audio.ResponseTimeout)
	require.Equal(t, 10*time.Millisecond, cfg.Audio.Settle)
	require.Equal(t, 115200, cfg.Bridge.Serial.Baud)
	require.Equal(t, -636200.0, cfg.GPIO.Scale.Offset)
	require.Equal(t, 211.0, cfg.GPIO.Scale.Factor)
	require.Equal(t, 300*time.Millisecond, cfg.Supervisor.HeartbeatPeriod)
	require.Equal(t, 5*time.Second, cfg.Supervisor.Watchdog.Timeout)
	require.Equal(t, 3*time.Second, cfg.Supervisor.Watchdog.FeedPeriod)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "by8301.yaml")
	content := `
audio:
  serial:
    tty: /dev/ttyAMA0
  responseTimeout: 250ms
gpio:
  triggerPin: 17
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("BY_BRIDGE_SERIAL_TTY", "/dev/ttyUSB0")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyAMA0", cfg.Audio.Serial.TTY)
	require.Equal(t, 250*time.Millisecond, cfg.Audio.ResponseTimeout)
	require.Equal(t, 17, cfg.GPIO.TriggerPin)
	require.Equal(t, "/dev/ttyUSB0", cfg.Bridge.Serial.TTY)
	require.Equal(t, 25, cfg.GPIO.LEDPin)
}

func TestLoadRejectsBadWatchdogPeriod(t *testing.T) {
	path := filepath.Join(t.TempDir(), "by8301.yaml")
	content := `
supervisor:
  watchdog:
    timeout: 2s
    feedPeriod: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	bad := *cfg
	bad.GPIO.Scale.Factor = 0
	require.Error(t, bad.Validate())

	bad = *cfg
	bad.Audio.ResponseTimeout = 0
	require.Error(t, bad.Validate())

	bad = *cfg
	bad.Supervisor.Watchdog.Enable = false
	bad.Supervisor.Watchdog.FeedPeriod = time.Hour
	require.NoError(t, bad.Validate())
}

func TestLoadRejectsBlockingPoll(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BY_AUDIO_SERIAL_POLLTIMEOUT", "0s")
	_, err := Load("")
	require.Error(t, err)

	t.Setenv("BY_AUDIO_SERIAL_POLLTIMEOUT", "100ms")
	t.Setenv("BY_BRIDGE_SERIAL_POLLTIMEOUT", "0s")
	_, err = Load("")
	require.Error(t, err)
}

func TestValidatePollAgainstReplyTimeout(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 10*time.Millisecond, cfg.Audio.Serial.IdleGap)

	bad := *cfg
	bad.Audio.ResponseTimeout = 50 * time.Millisecond
	require.Error(t, bad.Validate())

	bad = *cfg
	bad.Bridge.Serial.PollTimeout = 200 * time.Millisecond
	require.Error(t, bad.Validate())

	bad = *cfg
	bad.Bridge.Serial.IdleGap = 0
	require.Error(t, bad.Validate())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
