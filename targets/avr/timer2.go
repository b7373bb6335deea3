//go:build avr

package main

import "device/avr"

// carrierDuty is the compare value of the standard 36kHz carrier.
const carrierDuty = 0x91

// AvrTimer2 implements core.TimerDriver on timer 2. Outside ranging it
// produces the infrared carrier on OC2A.
type AvrTimer2 struct{}

func (AvrTimer2) StartPulseTrain(top uint8) {
	// CTC, toggle OC2A on match, no prescaler.
	avr.TCCR2A.Set(avr.TCCR2A_WGM21 | avr.TCCR2A_COM2A0)
	avr.TCCR2B.Set(avr.TCCR2B_CS20)
	avr.OCR2A.Set(top)
	avr.TIMSK2.SetBits(avr.TIMSK2_OCIE2A)
}

func (AvrTimer2) SetCompare(v uint8) {
	avr.OCR2A.Set(v)
}

func (AvrTimer2) FreeRun(top uint8) {
	avr.TCCR2A.Set(avr.TCCR2A_WGM21)
	avr.TCCR2B.Set(avr.TCCR2B_CS20)
	avr.OCR2A.Set(top)
	avr.TIMSK2.ClearBits(avr.TIMSK2_OCIE2A)
}

func (AvrTimer2) RestoreCarrier() {
	// Fast PWM, inverting output on OC2A.
	avr.TCCR2A.Set(avr.TCCR2A_WGM20 | avr.TCCR2A_WGM21 | avr.TCCR2A_COM2A0 | avr.TCCR2A_COM2A1)
	avr.TCCR2B.Set(avr.TCCR2B_CS20)
	avr.OCR2A.Set(carrierDuty)
	avr.TIMSK2.ClearBits(avr.TIMSK2_OCIE2A)
}
