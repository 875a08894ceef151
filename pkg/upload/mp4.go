package upload

import (
	"encoding/binary"
	"math"
	"math/bits"

	"igmobile/pkg/errors"
)

// DurationFromMP4 reads the movie duration in milliseconds from the mvhd box
// of an MP4/MOV file.
func DurationFromMP4(data []byte) (int64, error) {
	body, ok := findBox(data, "moov")
	if !ok {
		return 0, errors.InvalidArgument("no moov box in video")
	}
	mvhd, ok := findBox(body, "mvhd")
	if !ok || len(mvhd) < 4 {
		return 0, errors.InvalidArgument("no mvhd box in video")
	}

	var timescale uint32
	var duration uint64
	switch mvhd[0] {
	case 0:
		// version, flags, creation, modification, timescale, duration
		if len(mvhd) < 20 {
			return 0, errors.InvalidArgument("truncated mvhd box")
		}
		timescale = binary.BigEndian.Uint32(mvhd[12:16])
		duration = uint64(binary.BigEndian.Uint32(mvhd[16:20]))
	case 1:
		if len(mvhd) < 32 {
			return 0, errors.InvalidArgument("truncated mvhd box")
		}
		timescale = binary.BigEndian.Uint32(mvhd[20:24])
		duration = binary.BigEndian.Uint64(mvhd[24:32])
	default:
		return 0, errors.InvalidArgument("unsupported mvhd version %d", mvhd[0])
	}

	if timescale == 0 {
		return 0, errors.InvalidArgument("mvhd timescale is zero")
	}
	// 128-bit product so long version 1 durations neither wrap nor go negative
	hi, lo := bits.Mul64(duration, 1000)
	if hi >= uint64(timescale) {
		return 0, errors.InvalidArgument("mvhd duration out of range")
	}
	ms, _ := bits.Div64(hi, lo, uint64(timescale))
	if ms > math.MaxInt64 {
		return 0, errors.InvalidArgument("mvhd duration out of range")
	}
	return int64(ms), nil
}

// findBox returns the payload of the first top-level box of the given type
func findBox(data []byte, boxType string) ([]byte, bool) {
	for len(data) >= 8 {
		size := uint64(binary.BigEndian.Uint32(data[0:4]))
		header := uint64(8)
		switch size {
		case 0:
			size = uint64(len(data))
		case 1:
			if len(data) < 16 {
				return nil, false
			}
			size = binary.BigEndian.Uint64(data[8:16])
			header = 16
		}
		if size < header || size > uint64(len(data)) {
			return nil, false
		}
		if string(data[4:8]) == boxType {
			return data[header:size], true
		}
		data = data[size:]
	}
	return nil, false
}
