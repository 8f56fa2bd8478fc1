package rpi

// header maps physical 40-pin header positions to BCM channels.  Power and
// ground positions are absent.
var header = map[int]int{
	3: 2, 5: 3, 7: 4, 8: 14, 10: 15,
	11: 17, 12: 18, 13: 27, 15: 22, 16: 23,
	18: 24, 19: 10, 21: 9, 22: 25, 23: 11,
	24: 8, 26: 7, 27: 0, 28: 1, 29: 5,
	31: 6, 32: 12, 33: 13, 35: 19, 36: 16,
	37: 26, 38: 20, 40: 21,
}

// maxBCM is the highest channel of the BCM283x GPIO block.
const maxBCM = 53

// channel resolves n to a BCM channel under mode m.
func channel(m NumberingMode, n int) (int, bool) {
	switch m {
	case BCM:
		return n, n >= 0 && n <= maxBCM
	case BOARD:
		c, ok := header[n]
		return c, ok
	}
	return 0, false
}
