package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mbalug7/go-by8301-hx711/pkg/bridge"
	"github.com/mbalug7/go-by8301-hx711/pkg/by8301"
	"github.com/mbalug7/go-by8301-hx711/pkg/common"
	"github.com/mbalug7/go-by8301-hx711/pkg/config"
	"github.com/mbalug7/go-by8301-hx711/pkg/logging"
	"github.com/mbalug7/go-by8301-hx711/pkg/metrics"
	"github.com/mbalug7/go-by8301-hx711/pkg/supervisor"
)

func main() {
	configPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	err = run(cfg, logger)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("controller stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg := metrics.NewRegistry()
	m := metrics.New(reg)
	if cfg.Metrics.Enable {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler(reg))
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			err := srv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer srv.Close()
	}

	// watchdog first, so a hang while opening the peripherals still resets the board
	feederDone := make(chan error, 1)
	if cfg.Supervisor.Watchdog.Enable {
		wd, err := common.OpenWatchdog(cfg.Supervisor.Watchdog.Device)
		if err != nil {
			return err
		}
		feeder, err := supervisor.NewFeeder(wd, cfg.Supervisor.Watchdog.Timeout, cfg.Supervisor.Watchdog.FeedPeriod, logger.Named("watchdog"), m)
		if err != nil {
			wd.Close()
			return err
		}
		go func() { feederDone <- feeder.Run(ctx) }()
	} else {
		close(feederDone)
	}
	defer func() {
		cancel()
		err := <-feederDone
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("watchdog feeder stopped", zap.Error(err))
		}
	}()

	audioPort, err := common.OpenSerial(cfg.Audio.Serial.TTY, cfg.Audio.Serial.Baud, cfg.Audio.Serial.PollTimeout)
	if err != nil {
		return err
	}
	defer audioPort.Close()
	bus := common.NewBus(common.NewLine(audioPort, cfg.Audio.Serial.IdleGap), cfg.Audio.Settle, logger.Named("bus"), m)
	player := by8301.NewPlayer(bus, cfg.Audio.ResponseTimeout, logger.Named("player"))

	bridgePort, err := common.OpenSerial(cfg.Bridge.Serial.TTY, cfg.Bridge.Serial.Baud, cfg.Bridge.Serial.PollTimeout)
	if err != nil {
		return err
	}
	defer bridgePort.Close()

	gpio, err := common.NewGPIOHandler(cfg.GPIO.Chip, logger.Named("gpio"))
	if err != nil {
		return err
	}
	defer func() {
		err := gpio.Close()
		if err != nil {
			logger.Error("failed to release GPIO", zap.Error(err))
		}
	}()

	scale, err := gpio.RequestHX711(cfg.GPIO.HX711Clock, cfg.GPIO.HX711Data, common.Calibration{
		Offset: cfg.GPIO.Scale.Offset,
		Factor: cfg.GPIO.Scale.Factor,
	})
	if err != nil {
		return err
	}
	_, err = gpio.RequestTrigger(cfg.GPIO.TriggerPin, func() (bool, error) {
		return by8301.PlayIfIdle(player)
	}, m.TriggerEvent)
	if err != nil {
		return err
	}

	weights := bridge.NewService(common.NewLine(bridgePort, cfg.Bridge.Serial.IdleGap), scale, cfg.Bridge.BurstTimeout, logger.Named("bridge"), m)
	scheduler := supervisor.NewScheduler(logger.Named("scheduler"), m).Add(weights)
	if cfg.GPIO.HeartbeatLED {
		led, err := gpio.RequestLED(cfg.GPIO.LEDPin)
		if err != nil {
			return err
		}
		scheduler.Add(supervisor.NewHeartbeat(led, cfg.Supervisor.HeartbeatPeriod))
	}

	logger.Info("controller started",
		zap.String("audio", cfg.Audio.Serial.TTY),
		zap.String("bridge", cfg.Bridge.Serial.TTY),
		zap.Int("trigger", cfg.GPIO.TriggerPin))
	return scheduler.Run(ctx)
}
