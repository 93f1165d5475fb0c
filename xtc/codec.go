package xtc

import (
	"fmt"
	"math"

	"github.com/chemtraj/trajlib/geometry"
	"github.com/chemtraj/trajlib/trajerr"
	"github.com/chemtraj/trajlib/warnings"
)

// Header is the XDR-framed preamble of a compressed coordinate block (spec
// section 4.11 point 4): precision plus the per-axis bounding box and the
// small-magnitude table index the bitstream starts from.
type Header struct {
	Precision float32
	Min       [3]int32
	Max       [3]int32
	SmallIdx  int32
}

// DefaultPrecision is used whenever a caller requests precision <= 0.
const DefaultPrecision = 1000.0

func round(v float64) int32 {
	if v >= 0 {
		return int32(v + 0.5)
	}
	return int32(v - 0.5)
}

func absInt(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// Encode compresses coords at the given precision, returning the header and
// the packed, byte-aligned bitstream payload (spec section 4.11 points 1-6).
func Encode(coords []geometry.Vector3D, precision float64) (Header, []byte, error) {
	if precision <= 0 {
		warnings.Emit("xtc.Encode", fmt.Sprintf("invalid precision %v <= 0, falling back to %v", precision, DefaultPrecision))
		precision = DefaultPrecision
	}
	natoms := len(coords)
	lint := make([]int32, natoms*3)

	minInt := [3]int32{math.MaxInt32, math.MaxInt32, math.MaxInt32}
	maxInt := [3]int32{math.MinInt32, math.MinInt32, math.MinInt32}
	mindiff := int32(math.MaxInt32)
	var oldlint [3]int32

	for a := 0; a < natoms; a++ {
		var lv [3]int32
		for k := 0; k < 3; k++ {
			c := coords[a][k]
			p := c * precision
			// Round to the nearest integer. When the rounded product p
			// lands exactly on .5, the exact product's residual decides
			// which neighbour is nearer.
			lf := math.Round(p)
			if math.Abs(p-lf) == 0.5 {
				if e := math.FMA(c, precision, -p); e != 0 && (e > 0) != (lf > p) {
					lf -= math.Copysign(1, lf-p)
				}
			}
			if math.Abs(lf) > float64(math.MaxInt32)-2.0 {
				return Header{}, nil, trajerr.FormatError("xtc.Encode", fmt.Errorf("internal overflow compressing coordinate %d axis %d", a, k))
			}
			lv[k] = int32(lf)
			lint[a*3+k] = lv[k]
			if lv[k] < minInt[k] {
				minInt[k] = lv[k]
			}
			if lv[k] > maxInt[k] {
				maxInt[k] = lv[k]
			}
		}
		diff := absInt(oldlint[0]-lv[0]) + absInt(oldlint[1]-lv[1]) + absInt(oldlint[2]-lv[2])
		if diff < mindiff && a > 0 {
			mindiff = diff
		}
		oldlint = lv
	}

	h := Header{Precision: float32(precision), Min: minInt, Max: maxInt}

	if natoms == 0 {
		return h, nil, nil
	}

	if maxInt[0]-minInt[0] >= math.MaxInt32-2 || maxInt[1]-minInt[1] >= math.MaxInt32-2 || maxInt[2]-minInt[2] >= math.MaxInt32-2 {
		return Header{}, nil, trajerr.FormatError("xtc.Encode", fmt.Errorf("internal overflow compressing XTC coordinates"))
	}

	smallidx := uint32(firstIdx)
	for smallidx < lastIdx && magicInts[smallidx] < mindiff {
		smallidx++
	}
	h.SmallIdx = int32(smallidx)

	bitsize, sizeint, bitsizeint := calcSizeInt(minInt, maxInt)

	tmpidx := smallidx + 8
	maxidx := lastIdx
	if tmpidx < maxidx {
		maxidx = tmpidx
	}
	minidx := maxidx - 8
	tmpidx = smallidx - 1
	if firstIdx > tmpidx {
		tmpidx = firstIdx
	}

	smaller := magicInts[tmpidx] / 2
	smallnum := magicInts[smallidx] / 2
	sizesmall := [3]uint32{uint32(magicInts[smallidx]), uint32(magicInts[smallidx]), uint32(magicInts[smallidx])}
	larger := magicInts[maxidx] / 2

	buf := make([]byte, natoms*3*4+64)
	state := &bitState{}
	prevrun := int32(-1)
	var tmpcoord [8 * 3]uint32
	var prevcoord [3]int32

	i := 0
	for i < natoms {
		isSmall := false
		thiscoord := [2][3]int32{{lint[i*3], lint[i*3+1], lint[i*3+2]}, {0, 0, 0}}
		if i+1 < natoms {
			thiscoord[1] = [3]int32{lint[(i+1)*3], lint[(i+1)*3+1], lint[(i+1)*3+2]}
		}

		var isSmaller int32
		if smallidx < maxidx && i >= 1 &&
			absInt(thiscoord[0][0]-prevcoord[0]) < larger &&
			absInt(thiscoord[0][1]-prevcoord[1]) < larger &&
			absInt(thiscoord[0][2]-prevcoord[2]) < larger {
			isSmaller = 1
		} else if smallidx > minidx {
			isSmaller = -1
		} else {
			isSmaller = 0
		}

		if i+1 < natoms {
			if absInt(thiscoord[0][0]-thiscoord[1][0]) < smallnum &&
				absInt(thiscoord[0][1]-thiscoord[1][1]) < smallnum &&
				absInt(thiscoord[0][2]-thiscoord[1][2]) < smallnum {
				thiscoord[0], thiscoord[1] = thiscoord[1], thiscoord[0]
				isSmall = true
			}
		}

		var tmp [3]uint32
		tmp[0] = uint32(thiscoord[0][0] - minInt[0])
		tmp[1] = uint32(thiscoord[0][1] - minInt[1])
		tmp[2] = uint32(thiscoord[0][2] - minInt[2])
		if bitsize == 0 {
			encodebits(buf, state, bitsizeint[0], tmp[0])
			encodebits(buf, state, bitsizeint[1], tmp[1])
			encodebits(buf, state, bitsizeint[2], tmp[2])
		} else {
			encodeints(buf, state, bitsize, sizeint[:], tmp[:])
		}
		prevcoord = thiscoord[0]

		nextCoord := func(idx int) [3]int32 {
			return [3]int32{lint[idx*3], lint[idx*3+1], lint[idx*3+2]}
		}
		cur := thiscoord[1]

		if !isSmall && isSmaller == -1 {
			isSmaller = 0
		}
		run := 0
		for isSmall && run < 8*3 {
			tmpsum := int32(0)
			for j := 0; j < 3; j++ {
				d := cur[j] - prevcoord[j]
				tmpsum += d * d
			}
			if isSmaller == -1 && tmpsum >= smaller*smaller {
				isSmaller = 0
			}
			tmpcoord[run] = uint32(cur[0] - prevcoord[0] + smallnum)
			tmpcoord[run+1] = uint32(cur[1] - prevcoord[1] + smallnum)
			tmpcoord[run+2] = uint32(cur[2] - prevcoord[2] + smallnum)
			run += 3

			prevcoord = cur
			i++
			isSmall = false
			if i+1 < natoms {
				cur = nextCoord(i + 1)
				if absInt(cur[0]-prevcoord[0]) < smallnum &&
					absInt(cur[1]-prevcoord[1]) < smallnum &&
					absInt(cur[2]-prevcoord[2]) < smallnum {
					isSmall = true
				}
			}
		}

		if int32(run) != prevrun || isSmaller != 0 {
			prevrun = int32(run)
			encodebits(buf, state, 1, 1)
			num := uint32(int32(run) + isSmaller + 1)
			encodebits(buf, state, 5, num)
		} else {
			encodebits(buf, state, 1, 0)
		}
		for k := 0; k < run; k += 3 {
			encodeints(buf, state, uint32(smallidx), sizesmall[:], tmpcoord[k:k+3])
		}

		if isSmaller != 0 {
			if isSmaller < 0 {
				smallidx--
				smallnum = smaller
				smaller = magicInts[smallidx-1] / 2
			} else {
				smallidx++
				smaller = smallnum
				smallnum = magicInts[smallidx] / 2
			}
			sizesmall = [3]uint32{uint32(magicInts[smallidx]), uint32(magicInts[smallidx]), uint32(magicInts[smallidx])}
		}
		i++
	}

	if state.lastBits != 0 {
		state.count++
	}
	return h, buf[:state.count], nil
}

// Decode expands a compressed payload back into natoms coordinates,
// bit-for-bit the inverse of Encode.
func Decode(h Header, payload []byte, natoms int) ([]geometry.Vector3D, error) {
	out := make([]geometry.Vector3D, natoms)
	if natoms == 0 {
		return out, nil
	}

	bitsize, sizeint, bitsizeint := calcSizeInt(h.Min, h.Max)

	smallidx := uint32(h.SmallIdx)
	tmpidx := smallidx - 1
	if firstIdx > tmpidx {
		tmpidx = firstIdx
	}
	smaller := magicInts[tmpidx] / 2
	smallnum := magicInts[smallidx] / 2
	sizesmall := [3]uint32{uint32(magicInts[smallidx]), uint32(magicInts[smallidx]), uint32(magicInts[smallidx])}

	state := &bitState{}
	run := 0
	var prevcoord [3]int32
	invPrecision := 1.0 / float64(h.Precision)
	writeIdx := 0

	for readIdx := 0; readIdx < natoms; readIdx++ {
		var thiscoord [3]int32
		if bitsize == 0 {
			thiscoord[0] = int32(decodebits(payload, state, bitsizeint[0]))
			thiscoord[1] = int32(decodebits(payload, state, bitsizeint[1]))
			thiscoord[2] = int32(decodebits(payload, state, bitsizeint[2]))
		} else {
			var nums [3]int32
			decodeints(payload, state, bitsize, sizeint, nums[:])
			thiscoord = nums
		}
		thiscoord[0] += h.Min[0]
		thiscoord[1] += h.Min[1]
		thiscoord[2] += h.Min[2]
		prevcoord = thiscoord

		flag := decodebits(payload, state, 1)
		isSmaller := int32(0)
		if flag == 1 {
			r := int32(decodebits(payload, state, 5))
			isSmaller = r % 3
			r -= isSmaller
			isSmaller--
			run = int(r)
		}
		if run > 0 && writeIdx*3+run > natoms*3 {
			return nil, trajerr.FormatError("xtc.Decode", fmt.Errorf("buffer overrun during decompression of XTC coordinates"))
		}

		if run > 0 {
			for k := 0; k < run; k += 3 {
				var nums [3]int32
				decodeints(payload, state, smallidx, sizesmall, nums[:])
				readIdx++
				nums[0] += prevcoord[0] - smallnum
				nums[1] += prevcoord[1] - smallnum
				nums[2] += prevcoord[2] - smallnum
				if k == 0 {
					nums, prevcoord = prevcoord, nums
					out[writeIdx] = geometry.NewVector3D(float64(prevcoord[0])*invPrecision, float64(prevcoord[1])*invPrecision, float64(prevcoord[2])*invPrecision)
					writeIdx++
				} else {
					prevcoord = nums
				}
				out[writeIdx] = geometry.NewVector3D(float64(nums[0])*invPrecision, float64(nums[1])*invPrecision, float64(nums[2])*invPrecision)
				writeIdx++
			}
		} else {
			out[writeIdx] = geometry.NewVector3D(float64(thiscoord[0])*invPrecision, float64(thiscoord[1])*invPrecision, float64(thiscoord[2])*invPrecision)
			writeIdx++
		}

		if isSmaller < 0 {
			smallidx--
			smallnum = smaller
			if smallidx > firstIdx {
				smaller = magicInts[smallidx-1] / 2
			} else {
				smaller = 0
			}
		} else if isSmaller > 0 {
			smallidx++
			smaller = smallnum
			smallnum = magicInts[smallidx] / 2
		}
		sizesmall = [3]uint32{uint32(magicInts[smallidx]), uint32(magicInts[smallidx]), uint32(magicInts[smallidx])}
		if sizesmall[0] == 0 || sizesmall[1] == 0 || sizesmall[2] == 0 {
			return nil, trajerr.FormatError("xtc.Decode", fmt.Errorf("invalid size found during decompression of XTC coordinates"))
		}
	}

	return out, nil
}
