// Package glyph maps styled Unicode letters back to plain ASCII.
//
// Some SMS gateways transmit bank messages in mathematical/styled Unicode
// that looks like normal text but uses different code points (for example
// "𝖸𝗈𝗎𝗋" instead of "Your"), which defeats ASCII pattern matching. All
// pattern matching in this module runs on normalized text only.
package glyph

import "strings"

// styledRange is one contiguous styled Latin alphabet block: 26 uppercase
// letters immediately followed by 26 lowercase letters.
type styledRange struct {
	upperStart rune
	lowerStart rune
}

// Known styled alphabets. Each maps to ASCII by fixed offset arithmetic.
var styledRanges = []styledRange{
	{0x1D5A0, 0x1D5BA}, // mathematical sans-serif
	{0x1D5D4, 0x1D5EE}, // mathematical sans-serif bold
	{0x1D608, 0x1D622}, // mathematical sans-serif italic
	{0x1D400, 0x1D41A}, // mathematical bold
}

// Normalize rewrites styled Unicode letters in text to their plain ASCII
// equivalents. Code points outside every known styled range and outside the
// basic multilingual plane become a single space: unknown supplementary
// glyphs must never crash matching or silently concatenate neighbours.
func Normalize(text string) string {
	if text == "" {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		b.WriteRune(normalizeRune(r))
	}
	return b.String()
}

func normalizeRune(r rune) rune {
	for _, sr := range styledRanges {
		if r >= sr.upperStart && r < sr.upperStart+26 {
			return 'A' + (r - sr.upperStart)
		}
		if r >= sr.lowerStart && r < sr.lowerStart+26 {
			return 'a' + (r - sr.lowerStart)
		}
	}
	if r > 0xFFFF {
		return ' '
	}
	return r
}
