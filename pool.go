// pool.go: Scratch buffer pooling for secret byte copies
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypter

import (
	"sync"
)

const (
	smallBufferSize = 64
	largeBufferSize = 4 * 1024
)

var (
	// Passcodes and short settings values
	smallBufferPool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, smallBufferSize)
			return &buf
		},
	}

	largeBufferPool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, largeBufferSize)
			return &buf
		},
	}
)

func init() {
	WarmupPools(4)
}

// getBuffer returns a buffer of length size. Buffers larger than the biggest
// pool class are allocated directly and never pooled.
func getBuffer(size int) *[]byte {
	switch {
	case size <= smallBufferSize:
		buf := smallBufferPool.Get().(*[]byte)
		*buf = (*buf)[:size]
		return buf
	case size <= largeBufferSize:
		buf := largeBufferPool.Get().(*[]byte)
		*buf = (*buf)[:size]
		return buf
	default:
		buf := make([]byte, size)
		return &buf
	}
}

// putBuffer zeroes the full capacity of buf and returns it to its pool.
// Every pooled buffer may have held plaintext, so clearing is never skipped.
func putBuffer(buf *[]byte) {
	if buf == nil {
		return
	}

	full := (*buf)[:cap(*buf)]
	Zeroize(full)

	switch cap(full) {
	case smallBufferSize:
		smallBufferPool.Put(buf)
	case largeBufferSize:
		largeBufferPool.Put(buf)
	}
}

// secretCopy copies s into a pooled buffer. The caller must release it with
// putBuffer.
func secretCopy(s string) *[]byte {
	buf := getBuffer(len(s))
	copy(*buf, s)
	return buf
}

// WarmupPools pre-allocates count buffers in each pool class.
func WarmupPools(count int) {
	bufs := make([]*[]byte, 0, 2*count)
	for i := 0; i < count; i++ {
		bufs = append(bufs, getBuffer(smallBufferSize), getBuffer(largeBufferSize))
	}
	for _, b := range bufs {
		putBuffer(b)
	}
}
