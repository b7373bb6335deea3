//go:build avr

package main

import (
	"device/avr"

	"robosense/core"
)

// adcPrescale runs the converter at clk/64, 125kHz at 8MHz.
const adcPrescale = avr.ADCSRA_ADPS2 | avr.ADCSRA_ADPS1

// AvrConverter implements core.ConverterDriver on the ATmega converter.
type AvrConverter struct{}

func (AvrConverter) Apply(st core.ConverterState) {
	// Channel 14 selects the bandgap; RefInternal is the same 1.1V source.
	mux := uint8(st.Channel) & 0x0F
	if st.Reference == core.RefInternal {
		mux |= avr.ADMUX_REFS1 | avr.ADMUX_REFS0
	} else {
		mux |= avr.ADMUX_REFS0
	}
	avr.ADMUX.Set(mux)

	ctl := uint8(avr.ADCSRA_ADEN | adcPrescale)
	if st.Trigger == core.TriggerFreeRunning {
		// Auto trigger source 0 is free running.
		avr.ADCSRB.ClearBits(avr.ADCSRB_ADTS2 | avr.ADCSRB_ADTS1 | avr.ADCSRB_ADTS0)
		ctl |= avr.ADCSRA_ADATE | avr.ADCSRA_ADIE | avr.ADCSRA_ADSC
	}
	avr.ADCSRA.Set(ctl)
}

func (AvrConverter) Disable() {
	avr.ADCSRA.Set(0)
}

func (AvrConverter) Start() {
	avr.ADCSRA.SetBits(avr.ADCSRA_ADSC)
}

func (AvrConverter) Done() bool {
	return avr.ADCSRA.HasBits(avr.ADCSRA_ADIF)
}

// Clear writes a one to the flag, which is how the hardware clears it.
func (AvrConverter) Clear() {
	avr.ADCSRA.SetBits(avr.ADCSRA_ADIF)
}

// Result reads the low byte first; that latches the high byte.
func (AvrConverter) Result() uint16 {
	lo := uint16(avr.ADCL.Get())
	hi := uint16(avr.ADCH.Get())
	return hi<<8 | lo
}
