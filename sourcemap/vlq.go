package sourcemap

import (
	"fmt"
	"strings"
)

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const (
	vlqBaseShift = 5
	vlqBase      = 1 << vlqBaseShift
	vlqBaseMask  = vlqBase - 1
	vlqContinue  = vlqBase
)

var base64Index = func() [256]int {
	var idx [256]int
	for i := range idx {
		idx[i] = -1
	}
	for i := 0; i < len(base64Chars); i++ {
		idx[base64Chars[i]] = i
	}
	return idx
}()

// encodeVLQ appends the base64 VLQ encoding of v to b.
func encodeVLQ(b *strings.Builder, v int) {
	var n int
	if v < 0 {
		n = (-v << 1) | 1
	} else {
		n = v << 1
	}
	for {
		digit := n & vlqBaseMask
		n >>= vlqBaseShift
		if n > 0 {
			digit |= vlqContinue
		}
		b.WriteByte(base64Chars[digit])
		if n == 0 {
			return
		}
	}
}

// decodeVLQ decodes one value starting at s[i] and returns it along with
// the index of the next unread byte.
func decodeVLQ(s string, i int) (int, int, error) {
	var result, shift int
	for {
		if i >= len(s) {
			return 0, i, fmt.Errorf("unexpected end of mappings")
		}
		digit := base64Index[s[i]]
		if digit < 0 {
			return 0, i, fmt.Errorf("invalid base64 character %q in mappings", s[i])
		}
		i++
		result += (digit & vlqBaseMask) << shift
		if digit&vlqContinue == 0 {
			break
		}
		shift += vlqBaseShift
	}
	if result&1 == 1 {
		return -(result >> 1), i, nil
	}
	return result >> 1, i, nil
}
