// Package color decides whether text drawn on a given background color
// should be light or dark, using the HSP perceived brightness model.
package color

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned for anything that isn't a 3 or 6 digit hex color
var ErrInvalidColor = errors.New("invalid hex color")

// Tone is the brightness class of a color
type Tone int

const (
	Dark Tone = iota
	Light
)

func (t Tone) String() string {
	if t == Light {
		return "light"
	}
	return "dark"
}

// Threshold is the HSP midpoint. Colors strictly above it are light.
const Threshold = 127.5

// Classify reports whether color is light or dark. The color may carry one
// leading '#' and may use the 3-digit shorthand.
func Classify(color string) (Tone, error) {
	hsp, err := HSP(color)
	if err != nil {
		return Dark, err
	}
	return ToneOf(hsp), nil
}

// ToneOf classifies an HSP brightness value
func ToneOf(hsp float64) Tone {
	if hsp > Threshold {
		return Light
	}
	return Dark
}

// HSP returns sqrt(0.299 r² + 0.587 g² + 0.114 b²) for the color
func HSP(color string) (float64, error) {
	r, g, b, err := Channels(color)
	if err != nil {
		return 0, err
	}
	fr, fg, fb := float64(r), float64(g), float64(b)
	return math.Sqrt(0.299*fr*fr + 0.587*fg*fg + 0.114*fb*fb), nil
}

// Channels parses the color into its red, green and blue components
func Channels(color string) (r, g, b uint8, err error) {
	payload, err := normalize(color)
	if err != nil {
		return 0, 0, 0, err
	}
	v, err := strconv.ParseUint(payload, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	return uint8(v >> 16), uint8(v >> 8 & 0xff), uint8(v & 0xff), nil
}

// Foreground returns black for light backgrounds and white for dark ones
func Foreground(background string) (string, error) {
	tone, err := Classify(background)
	if err != nil {
		return "", err
	}
	if tone == Light {
		return "#000000", nil
	}
	return "#ffffff", nil
}

// normalize strips the '#' and expands shorthand ("abc" -> "aabbcc")
func normalize(color string) (string, error) {
	payload := strings.TrimPrefix(color, "#")
	for _, c := range payload {
		if !isHexDigit(c) {
			return "", fmt.Errorf("%w: %q", ErrInvalidColor, color)
		}
	}

	switch len(payload) {
	case 6:
		return payload, nil
	case 3:
		var sb strings.Builder
		for _, c := range payload {
			sb.WriteRune(c)
			sb.WriteRune(c)
		}
		return sb.String(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
