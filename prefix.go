// Copyright © 2019, Oleksandr Krykovliuk <k33nice@gmail.com>.
// Use of this source code is governed by the
// MIT license that can be found in the LICENSE file.

package patricia

import "bytes"

// commonPrefixLen returns the number of leading symbols a and b share.
func commonPrefixLen(a, b Key) int {
	limit := len(a)
	if len(b) < limit {
		limit = len(b)
	}

	i := 0
	for ; i < limit; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return i
}

// commonPrefix returns the longest leading sequence shared by a and b.
// The result aliases a.
func commonPrefix(a, b Key) Key {
	n := commonPrefixLen(a, b)
	return a[:n:n]
}

func hasPrefix(key, prefix Key) bool {
	return bytes.HasPrefix(key, prefix)
}

// cloneKey copies key so the tree never aliases caller memory.
func cloneKey(key Key) Key {
	out := make([]byte, len(key))
	copy(out, key)
	return out
}
