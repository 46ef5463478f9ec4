package csvify

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxFilenameLen = 255

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}

	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)
	leadingDots          = regexp.MustCompile(`^\.+`)
)

// BOM returns the byte-order mark to write before converted text: the
// little-endian UTF-16 mark for "utf-16le", the UTF-8 mark for anything else.
func BOM(encoding string) []byte {
	if strings.EqualFold(encoding, "utf-16le") {
		return append([]byte(nil), utf16LEBOM...)
	}
	return append([]byte(nil), utf8BOM...)
}

// SanitizeFilename makes name safe to use as a file name: reserved and control
// characters become "_", a run of leading dots becomes a single "_", and the
// result is cut to 255 bytes without splitting a character.
func SanitizeFilename(name string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "_")
	name = leadingDots.ReplaceAllString(name, "_")
	if len(name) <= maxFilenameLen {
		return name
	}
	cut := maxFilenameLen
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}
