//go:build avr

package main

import (
	"device/avr"
	"machine"
	"runtime/interrupt"
	"time"

	"robosense/core"
	"robosense/protocol"
)

// linkBaud matches the host serial default.
const linkBaud = 57600

var (
	// Interrupt handlers must be plain functions, so the engines they
	// drive live in a package variable.
	sensing *core.Sensing

	boot time.Time

	// debugBuild turns on debug lines on the telemetry link. Set it with
	// -ldflags "-X main.debugBuild=1".
	debugBuild string

	debugOut protocol.ScratchOutput
)

func handleConversion(interrupt.Interrupt) {
	sensing.Encoder.HandleConversion()
}

func handleCompare(interrupt.Interrupt) {
	sensing.Ranger.HandleCompare()
}

func updateSystemTime() {
	core.SetTime(uint32(time.Since(boot) / time.Millisecond))
}

// uartDebug interleaves debug lines with report frames. The host drops
// each line as a bad frame and keeps decoding.
func uartDebug(uart *machine.UART) core.DebugWriter {
	return func(msg string) {
		debugOut.Reset()
		protocol.EncodeText(&debugOut, msg)
		uart.Write(debugOut.Result())
	}
}

func main() {
	boot = time.Now()
	core.TimerInit()

	uart := machine.DefaultUART
	uart.Configure(machine.UARTConfig{BaudRate: linkBaud})
	configurePins()
	core.SetDebugWriter(uartDebug(uart))
	core.SetDebugEnabled(debugBuild != "")

	var err error
	sensing, err = core.NewSensing(core.Hardware{
		Converter:  AvrConverter{},
		Timer:      AvrTimer2{},
		Comparator: AvrComparator{},
		Indicators: Board{},
		Clock:      Board{},
	}, core.DefaultConfig())
	if err != nil {
		// Calibration constants are compiled in; nothing to recover to.
		core.DebugPrintln("[BOOT] " + err.Error())
		core.DumpTimingRing()
		for {
		}
	}

	interrupt.New(avr.IRQ_ADC, handleConversion)
	interrupt.New(avr.IRQ_TIMER2_COMPA, handleCompare)

	AvrTimer2{}.RestoreCarrier()
	sensing.Encoder.Init()

	var sched core.Scheduler
	reporter := core.NewReporter(sensing, uart)
	reporter.Start(&sched, core.GetTime())

	for {
		updateSystemTime()
		sched.Dispatch(core.GetTime())
	}
}
