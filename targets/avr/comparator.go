//go:build avr

package main

import (
	"device/avr"
	"machine"
)

// echoChannel is the converter input the receiver amplifier is wired to.
const echoChannel = 3

// AvrComparator implements core.ComparatorDriver. The echo is compared
// against AIN0 (PD6), which is the line LED pin outside ranging.
type AvrComparator struct{}

// AttachEcho routes the echo input through the converter multiplexer to the
// comparator. The converter must already be disabled.
func (AvrComparator) AttachEcho() {
	machine.PD6.Configure(machine.PinConfig{Mode: machine.PinInput})
	avr.ADMUX.Set(echoChannel)
	avr.ADCSRB.SetBits(avr.ADCSRB_ACME)
	// Falling output edge.
	avr.ACSR.Set(avr.ACSR_ACIS1)
}

func (AvrComparator) Detach() {
	avr.ACSR.ClearBits(avr.ACSR_ACIS1 | avr.ACSR_ACIS0)
	avr.ADCSRB.ClearBits(avr.ADCSRB_ACME)
	machine.PD6.Configure(machine.PinConfig{Mode: machine.PinOutput})
}

func (AvrComparator) EdgeDetected() bool {
	return avr.ACSR.HasBits(avr.ACSR_ACI)
}

func (AvrComparator) ClearEdge() {
	avr.ACSR.SetBits(avr.ACSR_ACI)
}
