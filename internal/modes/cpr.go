package modes

import "math"

// airDlatEven and airDlatOdd are the CPR latitude zone sizes for even/odd
// frames (spec §4.4).
const (
	airDlatEven = 360.0 / 60
	airDlatOdd  = 360.0 / 59
	cprScale    = 131072.0 // 2^17
)

// CPRPosition is the result of a successful global airborne CPR decode.
type CPRPosition struct {
	Latitude  float64
	Longitude float64
}

// cprMod is the always-positive remainder used throughout CPR decoding.
func cprMod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

// NL is the CPR "number of longitude zones" staircase (spec §4.4), a
// 58-step table symmetric about the equator.
func NL(lat float64) int {
	if lat < 0 {
		lat = -lat
	}
	switch {
	case lat < 10.47047130:
		return 59
	case lat < 14.82817437:
		return 58
	case lat < 18.18626357:
		return 57
	case lat < 21.02939493:
		return 56
	case lat < 23.54504487:
		return 55
	case lat < 25.82924707:
		return 54
	case lat < 27.93898710:
		return 53
	case lat < 29.91135686:
		return 52
	case lat < 31.77209708:
		return 51
	case lat < 33.53993436:
		return 50
	case lat < 35.22899598:
		return 49
	case lat < 36.85025108:
		return 48
	case lat < 38.41241892:
		return 47
	case lat < 39.92256684:
		return 46
	case lat < 41.38651832:
		return 45
	case lat < 42.80914012:
		return 44
	case lat < 44.19454951:
		return 43
	case lat < 45.54626723:
		return 42
	case lat < 46.86733252:
		return 41
	case lat < 48.16039128:
		return 40
	case lat < 49.42776439:
		return 39
	case lat < 50.67150166:
		return 38
	case lat < 51.89342469:
		return 37
	case lat < 53.09516153:
		return 36
	case lat < 54.27817472:
		return 35
	case lat < 55.44378444:
		return 34
	case lat < 56.59318756:
		return 33
	case lat < 57.72747354:
		return 32
	case lat < 58.84763776:
		return 31
	case lat < 59.95459277:
		return 30
	case lat < 61.04917774:
		return 29
	case lat < 62.13216659:
		return 28
	case lat < 63.20427479:
		return 27
	case lat < 64.26616523:
		return 26
	case lat < 65.31845310:
		return 25
	case lat < 66.36171008:
		return 24
	case lat < 67.39646774:
		return 23
	case lat < 68.42322022:
		return 22
	case lat < 69.44242631:
		return 21
	case lat < 70.45451075:
		return 20
	case lat < 71.45986473:
		return 19
	case lat < 72.45884545:
		return 18
	case lat < 73.45177442:
		return 17
	case lat < 74.43893416:
		return 16
	case lat < 75.42056257:
		return 15
	case lat < 76.39684391:
		return 14
	case lat < 77.36789461:
		return 13
	case lat < 78.33374083:
		return 12
	case lat < 79.29428225:
		return 11
	case lat < 80.24923213:
		return 10
	case lat < 81.19801349:
		return 9
	case lat < 82.13956981:
		return 8
	case lat < 83.07199445:
		return 7
	case lat < 83.99173563:
		return 6
	case lat < 84.89166191:
		return 5
	case lat < 85.75541621:
		return 4
	case lat < 86.53536998:
		return 3
	case lat < 87.00000000:
		return 2
	default:
		return 1
	}
}

// cprN is NL(lat) adjusted for odd/even frames, floored at 1.
func cprN(lat float64, isOdd int) int {
	n := NL(lat) - isOdd
	if n < 1 {
		n = 1
	}
	return n
}

// CPRSnapshot is one raw odd or even airborne position report.
type CPRSnapshot struct {
	RawLat      int
	RawLon      int
	CapturedAtMs int64
}

// DecodeGlobalAirborne combines an even and an odd CPR snapshot into an
// absolute lat/lon using the global airborne decode (spec §4.4). Returns
// ok=false if the two snapshots straddle different latitude zones or their
// capture times are more than 10s apart.
func DecodeGlobalAirborne(even, odd CPRSnapshot, newerIsOdd bool) (pos CPRPosition, ok bool) {
	if abs64(even.CapturedAtMs-odd.CapturedAtMs) > 10000 {
		return CPRPosition{}, false
	}

	latEven := float64(even.RawLat)
	latOdd := float64(odd.RawLat)
	lonEven := float64(even.RawLon)
	lonOdd := float64(odd.RawLon)

	j := int(math.Floor((59*latEven-60*latOdd)/cprScale + 0.5))
	rlat0 := airDlatEven * (float64(cprMod(j, 60)) + latEven/cprScale)
	rlat1 := airDlatOdd * (float64(cprMod(j, 59)) + latOdd/cprScale)

	if rlat0 >= 270 {
		rlat0 -= 360
	}
	if rlat1 >= 270 {
		rlat1 -= 360
	}

	if NL(rlat0) != NL(rlat1) {
		return CPRPosition{}, false
	}

	var rlat float64
	var isOdd int
	var lon float64
	if newerIsOdd {
		rlat = rlat1
		isOdd = 1
		ni := cprN(rlat, isOdd)
		m := math.Floor((lonEven*float64(NL(rlat)-1)-lonOdd*float64(NL(rlat)))/cprScale + 0.5)
		lon = (360.0 / float64(ni)) * (float64(cprMod(int(m), ni)) + lonOdd/cprScale)
	} else {
		rlat = rlat0
		isOdd = 0
		ni := cprN(rlat, isOdd)
		m := math.Floor((lonEven*float64(NL(rlat)-1)-lonOdd*float64(NL(rlat)))/cprScale + 0.5)
		lon = (360.0 / float64(ni)) * (float64(cprMod(int(m), ni)) + lonEven/cprScale)
	}

	if lon > 180 {
		lon -= 360
	}

	return CPRPosition{Latitude: rlat, Longitude: lon}, true
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
