//go:build pico

// Package pico adapts the RP2040 peripherals to the hal interfaces so the audio
// bus, the weight bridge and the supervisor run unchanged under TinyGo.
package pico

import (
	"machine"
	"time"

	"github.com/mbalug7/go-by8301-hx711/pkg/hal"
)

var (
	_ hal.SerialPort = (*UART)(nil)
	_ hal.OutputLine = Pin(0)
	_ hal.Watchdog   = (*Watchdog)(nil)
)

// UART wraps a machine UART. Read never blocks, it returns 0 when the RX ring is empty.
type UART struct {
	uart *machine.UART
}

func NewUART(uart *machine.UART, tx machine.Pin, rx machine.Pin, baud uint32) (*UART, error) {
	err := uart.Configure(machine.UARTConfig{
		BaudRate: baud,
		TX:       tx,
		RX:       rx,
	})
	if err != nil {
		return nil, err
	}
	uart.Buffer.Clear()
	return &UART{uart: uart}, nil
}

func (obj *UART) Read(p []byte) (int, error) {
	return obj.uart.Read(p)
}

func (obj *UART) Write(p []byte) (int, error) {
	return obj.uart.Write(p)
}

// Flush drops the bytes waiting in the RX ring
func (obj *UART) Flush() error {
	obj.uart.Buffer.Clear()
	return nil
}

// Pin is a GPIO usable as output line or, for the HX711, as data input
type Pin machine.Pin

func OutputPin(p machine.Pin) Pin {
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.Low()
	return Pin(p)
}

func InputPin(p machine.Pin) Pin {
	p.Configure(machine.PinConfig{Mode: machine.PinInput})
	return Pin(p)
}

func (p Pin) SetValue(value int) error {
	machine.Pin(p).Set(value != 0)
	return nil
}

func (p Pin) Value() (int, error) {
	if machine.Pin(p).Get() {
		return 1, nil
	}
	return 0, nil
}

// OnRisingEdge calls fire from a new goroutine for every rising edge on p, the
// interrupt handler itself must not block
func OnRisingEdge(p machine.Pin, fire func() bool) error {
	p.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	return p.SetInterrupt(machine.PinRising, func(machine.Pin) {
		go fire()
	})
}

// Watchdog drives the RP2040 hardware watchdog. Once started it cannot be stopped,
// Close only stops feeding.
type Watchdog struct{}

func (obj *Watchdog) Arm(timeout time.Duration) error {
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: uint32(timeout.Milliseconds())})
	if err != nil {
		return err
	}
	return machine.Watchdog.Start()
}

func (obj *Watchdog) Feed() error {
	machine.Watchdog.Update()
	return nil
}

func (obj *Watchdog) Close() error {
	return nil
}
