package model

// MinutesOf converts a zero-padded 24h "HH:MM" string to minutes since
// midnight. It reports false for anything else, including Close.
func MinutesOf(hhmm string) (int, bool) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, false
	}
	h, ok1 := twoDigits(hhmm[0], hhmm[1])
	m, ok2 := twoDigits(hhmm[3], hhmm[4])
	if !ok1 || !ok2 || h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
