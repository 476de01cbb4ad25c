// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package squashfs provides read-only access to the contents of a
// SquashFS 4.0 image.
//
// The design principle of this package is that, it will just provide the
// ability to decode the contents of the image, and it will never cache
// any decoded blocks internally. Every metadata fetch re-reads and
// re-decompresses the blocks it touches; callers that need caching must
// layer it on top.
package squashfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dpeckett/squashfs/compression"
)

// Decompressor is the capability the image needs to decode compressed
// blocks. Implementations must fail on malformed streams and when the
// decompressed output would exceed maxSize.
type Decompressor interface {
	Decompress(src []byte, maxSize int) ([]byte, error)
}

// Image represents an open SquashFS image. It holds no mutable state, so
// operations on it may run concurrently as long as the underlying reader
// and decompressor allow it.
type Image struct {
	src io.ReaderAt
	sb  SuperBlock
	dec Decompressor
}

// OpenImage returns an Image providing access to the contents in the
// image file src. The decompressor is chosen from the compression id
// recorded in the superblock.
func OpenImage(src io.ReaderAt) (*Image, error) {
	i := &Image{src: src}

	if err := i.initSuperBlock(); err != nil {
		return nil, err
	}

	dec, err := compression.New(i.sb.Compression)
	if err != nil {
		return nil, err
	}
	i.dec = dec

	return i, nil
}

// OpenImageWithDecompressor is like OpenImage but uses the supplied
// decompressor instead of consulting the superblock's compression id.
// A nil decompressor is allowed for images that store every block
// uncompressed.
func OpenImageWithDecompressor(src io.ReaderAt, dec Decompressor) (*Image, error) {
	i := &Image{src: src, dec: dec}

	if err := i.initSuperBlock(); err != nil {
		return nil, err
	}

	return i, nil
}

// SuperBlock returns a copy of the image's superblock.
func (i *Image) SuperBlock() SuperBlock {
	return i.sb
}

// BlockSize returns the data block size of this image.
func (i *Image) BlockSize() uint32 {
	return i.sb.BlockSize
}

// Inodes returns the total inode count of this image.
func (i *Image) Inodes() uint32 {
	return i.sb.Inodes
}

// initSuperBlock initializes the superblock of this image.
func (i *Image) initSuperBlock() error {
	if err := i.unmarshalFrom(0, &i.sb); err != nil {
		return err
	}

	return i.sb.validate()
}

// bytesAt returns the bytes at [off, off+n) of the image. A short read
// is failure, never silently zero-padded.
func (i *Image) bytesAt(off int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := i.src.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("%w: read of %d bytes at offset %d: %v", ErrIO, n, off, err)
	}
	return buf, nil
}

func (i *Image) unmarshalFrom(off int64, data any) error {
	buf, err := i.bytesAt(off, binary.Size(data))
	if err != nil {
		return err
	}

	return binary.Read(bytes.NewReader(buf), binary.LittleEndian, data)
}
