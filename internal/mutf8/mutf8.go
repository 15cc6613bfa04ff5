// Copyright 2024 The go-classfile Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

// Package mutf8 decodes the JVM's modified UTF-8 (CESU-8 variant) string
// encoding used by Utf8 constant pool entries: U+0000 is encoded as the
// two bytes 0xC0 0x80 instead of a single zero byte, and supplementary
// code points are encoded as a pair of three-byte surrogates rather than
// a single four-byte UTF-8 sequence (JVM spec 4.4.7).
//
// The Transformer here follows the shape of
// golang.org/x/text/encoding/unicode's UTF-16 decoders: a
// transform.Transformer that consumes modified UTF-8 and emits standard
// UTF-8, so it composes with the rest of the x/text pipeline.
package mutf8

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// ErrInvalid is returned for a byte sequence that is not valid modified
// UTF-8: a continuation byte in the wrong position, a lone high or low
// surrogate, or a truncated multi-byte sequence.
var ErrInvalid = errors.New("mutf8: invalid modified UTF-8 sequence")

// Decode converts a complete modified-UTF-8 byte slice to a Go string by
// running it through the Transformer via transform.Bytes, the same
// decoder.Bytes(...) shape golang.org/x/text/encoding callers use.
func Decode(data []byte) (string, error) {
	out, _, err := transform.Bytes(NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// decodeRaw decodes exactly one modified-UTF-8 encoded unit (1, 2, or 3
// bytes), without combining surrogate pairs.
func decodeRaw(b []byte) (rune, int, error) {
	if len(b) == 0 {
		return 0, 0, ErrInvalid
	}
	c0 := b[0]
	switch {
	case c0&0x80 == 0x00:
		// 0xxxxxxx: ASCII, except 0x00 which is never valid standalone.
		if c0 == 0x00 {
			return 0, 0, ErrInvalid
		}
		return rune(c0), 1, nil
	case c0&0xE0 == 0xC0:
		if len(b) < 2 || !isContinuation(b[1]) {
			return 0, 0, ErrInvalid
		}
		r := (rune(c0&0x1F) << 6) | rune(b[1]&0x3F)
		return r, 2, nil
	case c0&0xF0 == 0xE0:
		if len(b) < 3 || !isContinuation(b[1]) || !isContinuation(b[2]) {
			return 0, 0, ErrInvalid
		}
		r := (rune(c0&0x0F) << 12) | (rune(b[1]&0x3F) << 6) | rune(b[2]&0x3F)
		return r, 3, nil
	default:
		return 0, 0, ErrInvalid
	}
}

func isContinuation(b byte) bool {
	return b&0xC0 == 0x80
}

// Transformer implements transform.Transformer, decoding modified UTF-8
// from src and writing standard UTF-8 to dst.
type Transformer struct{}

// NewDecoder returns a fresh Transformer. Decoding is stateless between
// calls, so the zero value would work equally well; NewDecoder exists to
// mirror the constructor shape used throughout x/text/encoding.
func NewDecoder() *Transformer {
	return &Transformer{}
}

func (Transformer) Reset() {}

func (Transformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size, derr := decodeRaw(src[nSrc:])
		if derr != nil {
			if !atEOF && couldBeTruncated(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			return nDst, nSrc, ErrInvalid
		}

		consumed := size
		// A high surrogate needs to see its low-surrogate partner,
		// encoded as another three-byte unit, before it can be emitted
		// as a single supplementary rune.
		if utf16.IsSurrogate(r) {
			if nSrc+size+3 > len(src) {
				if !atEOF {
					return nDst, nSrc, transform.ErrShortSrc
				}
				return nDst, nSrc, ErrInvalid
			}
			r2, size2, derr := decodeRaw(src[nSrc+size:])
			if derr != nil {
				return nDst, nSrc, ErrInvalid
			}
			combined := utf16.DecodeRune(r, r2)
			if combined == utf8.RuneError {
				return nDst, nSrc, ErrInvalid
			}
			r = combined
			consumed = size + size2
		}

		if nDst+utf8.UTFMax > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		n := utf8.EncodeRune(dst[nDst:], r)
		nDst += n
		nSrc += consumed
	}
	return nDst, nSrc, nil
}

// couldBeTruncated reports whether b looks like the start of a valid
// multi-byte sequence that simply ran out of bytes, as opposed to being
// outright invalid.
func couldBeTruncated(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	c0 := b[0]
	switch {
	case c0&0xE0 == 0xC0:
		return len(b) < 2
	case c0&0xF0 == 0xE0:
		return len(b) < 3
	default:
		return false
	}
}
