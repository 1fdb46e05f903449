package util

import (
	"math"
)

// util/SmallFloat.java

/*
floatToByte(b, mantissaBits=3, zeroExponent=15)
smallest non-zero value = 5.820766E-10
largest value = 7.5161928E9
epsilon = 0.125
*/
func FloatToByte315(f float32) byte {
	bits := math.Float32bits(f)
	smallfloat := bits >> (24 - 3)
	if smallfloat <= ((63 - 15) << 3) {
		if int32(bits) <= 0 {
			return 0
		}
		return 1
	}
	if smallfloat >= ((63-15)<<3)+0x100 {
		return 255
	}
	return byte(smallfloat - ((63 - 15) << 3))
}

// Byte315ToFloat is the inverse of FloatToByte315.
func Byte315ToFloat(b byte) float32 {
	if b == 0 {
		return 0
	}
	bits := uint32(b) << (24 - 3)
	bits += (63 - 15) << 24
	return math.Float32frombits(bits)
}

var norm315Table = func() (table [256]float32) {
	for i := range table {
		table[i] = Byte315ToFloat(byte(i))
	}
	return
}()

// DecodeNorm315 looks the decoded value up in a precomputed table.
func DecodeNorm315(b byte) float32 {
	return norm315Table[b]
}
