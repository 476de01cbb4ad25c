// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package compression provides the decompressor backends a SquashFS
// image may declare in its superblock.
package compression

import (
	"errors"
	"fmt"
	"io"
)

// Compression algorithm ids as recorded in the superblock.
const (
	Zlib uint16 = 1 + iota
	Lzma
	Lzo
	XZ
	LZ4
	Zstd
)

// ErrUnsupported is returned for algorithms without a backend. Lzma and
// lzo images are readable only by tooling with native decoders.
var ErrUnsupported = errors.New("compression: unsupported algorithm")

// Decompressor decodes one compressed block at a time. Implementations
// fail on malformed input and when the output would exceed maxSize;
// they never return partial output.
type Decompressor interface {
	Decompress(src []byte, maxSize int) ([]byte, error)
}

// New returns the decompressor backend for the given superblock
// compression id.
func New(id uint16) (Decompressor, error) {
	switch id {
	case Zlib:
		return NewZlib(), nil
	case XZ:
		return NewXZ(), nil
	case LZ4:
		return NewLZ4(), nil
	case Zstd:
		return NewZstd()
	case Lzma, Lzo:
		return nil, fmt.Errorf("%w: id %d", ErrUnsupported, id)
	default:
		return nil, fmt.Errorf("unknown compression id %d", id)
	}
}

// readBounded drains r into a fresh buffer, failing if more than
// maxSize bytes are produced.
func readBounded(r io.Reader, maxSize int) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, int64(maxSize)+1))
	if err != nil {
		return nil, err
	}
	if len(out) > maxSize {
		return nil, fmt.Errorf("decompressed output exceeds %d bytes", maxSize)
	}
	return out, nil
}
