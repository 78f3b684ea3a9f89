package packstream

// PackStream marker bytes. Small values are encoded inline in the marker
// itself ("tiny" forms); larger values carry an explicit big-endian length.
const (
	markerNull  byte = 0xC0
	markerFloat byte = 0xC1
	markerFalse byte = 0xC2
	markerTrue  byte = 0xC3

	markerInt8  byte = 0xC8
	markerInt16 byte = 0xC9
	markerInt32 byte = 0xCA
	markerInt64 byte = 0xCB

	markerBytes8  byte = 0xCC
	markerBytes16 byte = 0xCD
	markerBytes32 byte = 0xCE

	markerTinyString byte = 0x80 // 0x80..0x8F, length in low nibble
	markerString8    byte = 0xD0
	markerString16   byte = 0xD1
	markerString32   byte = 0xD2

	markerTinyList byte = 0x90 // 0x90..0x9F
	markerList8    byte = 0xD4
	markerList16   byte = 0xD5
	markerList32   byte = 0xD6

	markerTinyMap byte = 0xA0 // 0xA0..0xAF
	markerMap8    byte = 0xD8
	markerMap16   byte = 0xD9
	markerMap32   byte = 0xDA

	markerTinyStruct byte = 0xB0 // 0xB0..0xBF, field count in low nibble
)

// Tiny ints occupy 0xF0..0xFF (-16..-1) and 0x00..0x7F (0..127).
const (
	tinyIntMin = -16
	tinyIntMax = 127
)

// maxContainer is the largest length any container form can carry.
const maxContainer = 1<<32 - 1
