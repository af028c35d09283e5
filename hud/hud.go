// Package hud turns weapon counters into the text and tint of the ammunition
// labels.
package hud

import (
	"image/color"
	"strconv"

	"github.com/milk9111/sentinel/common"
	"golang.org/x/image/colornames"
)

// AmmoReader is the read side of a weapon.
type AmmoReader interface {
	CurrentAmmunition() int
	TotalReserve() int
	Capacity() int
}

func CurrentText(r AmmoReader) string {
	return strconv.Itoa(r.CurrentAmmunition())
}

func ReserveText(r AmmoReader) string {
	return strconv.Itoa(r.TotalReserve())
}

// CurrentColor fades from empty toward white as the magazine fills. emptySpeed
// scales how quickly the label leaves the empty colour, so with 1.5 the label
// is fully white at two thirds of a magazine.
func CurrentColor(current, capacity int, emptySpeed float64, empty color.Color) color.NRGBA {
	from := color.NRGBAModel.Convert(empty).(color.NRGBA)
	if capacity <= 0 {
		return from
	}
	t := float32(common.Clamp01(float64(current) / float64(capacity) * emptySpeed))
	to := color.NRGBA(colornames.White)
	return color.NRGBA{
		R: lerpChannel(from.R, to.R, t),
		G: lerpChannel(from.G, to.G, t),
		B: lerpChannel(from.B, to.B, t),
		A: lerpChannel(from.A, to.A, t),
	}
}

func lerpChannel(a, b uint8, t float32) uint8 {
	return uint8(common.Lerp(float32(a), float32(b), t) + 0.5)
}

// Labels is what the HUD draws for one weapon.
type Labels struct {
	Current      string
	Reserve      string
	CurrentColor color.NRGBA
}

// Binder polls a weapon each tick and keeps the last labels.
type Binder struct {
	UpdateColor bool
	EmptySpeed  float64
	EmptyColor  color.Color

	labels Labels
}

func NewBinder() *Binder {
	return &Binder{
		UpdateColor: true,
		EmptySpeed:  1.5,
		EmptyColor:  colornames.Red,
		labels:      Labels{CurrentColor: color.NRGBA(colornames.White)},
	}
}

// Tick refreshes the labels from r. A nil reader leaves them unchanged.
func (b *Binder) Tick(r AmmoReader) Labels {
	if r == nil {
		return b.labels
	}
	b.labels.Current = CurrentText(r)
	b.labels.Reserve = ReserveText(r)
	if b.UpdateColor {
		b.labels.CurrentColor = CurrentColor(r.CurrentAmmunition(), r.Capacity(), b.EmptySpeed, b.EmptyColor)
	}
	return b.labels
}

func (b *Binder) Labels() Labels { return b.labels }
