package graph

// nodeName returns the DOT identifier for the n-th node: a..z, then ba, bb,
// and so on, reading the letters as base-26 digits with a as zero.
func nodeName(n int) string {
	if n < 0 {
		n = 0
	}
	var buf [16]byte
	i := len(buf)
	for {
		i--
		buf[i] = byte('a' + n%26)
		n /= 26
		if n == 0 {
			break
		}
	}
	return string(buf[i:])
}
