// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package classfile

// Fuzz is the go-fuzz entrypoint: feed arbitrary bytes through Decode
// and report whether they parsed, following the go-fuzz convention of
// returning 1 to prioritize inputs that reached a meaningful code path.
func Fuzz(data []byte) int {
	cf, err := NewBytes(data, nil)
	if err != nil {
		return 0
	}
	if cf == nil {
		return 0
	}
	return 1
}
