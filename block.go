// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package squashfs

import (
	"encoding/binary"
	"fmt"
)

// block is an owned, fully decoded buffer. It is created by one fetch,
// handed to exactly one caller, and dropped when that fetch returns;
// len(data) is always the decoded length, never the on-disk length.
type block struct {
	data []byte
}

// metadataHeader decodes the 16-bit header that precedes every metadata
// block. The bit is set when the block is stored uncompressed. A size
// field of 0 means a full-size block, not an empty one; this is an
// on-disk convention.
func metadataHeader(hdr uint16) (compressed bool, size uint16) {
	compressed = hdr&metadataCompressedBit == 0
	size = hdr &^ metadataCompressedBit
	if size == 0 {
		size = MetadataBlockSize
	}
	return compressed, size
}

// dataHeader decodes the 32-bit header stored in an inode's block list
// for each data block. Unlike metadata headers there is no zero
// reinterpretation: a zero size is a sparse block.
func dataHeader(hdr uint32) (compressed bool, size uint32) {
	compressed = hdr&dataCompressedBit == 0
	size = hdr &^ dataCompressedBit
	return compressed, size
}

// readBlock reads size on-disk bytes at pos and returns the decoded
// block, decompressing into at most maxSize bytes when compressed. On
// any failure no block is returned.
func (i *Image) readBlock(pos int64, compressed bool, size uint32, maxSize int) (block, error) {
	data, err := i.bytesAt(pos, int(size))
	if err != nil {
		return block{}, err
	}

	if compressed {
		if i.dec == nil {
			return block{}, fmt.Errorf("%w: no decompressor configured", ErrDecompress)
		}

		decomp, err := i.dec.Decompress(data, maxSize)
		if err != nil {
			return block{}, fmt.Errorf("%w: block at offset %d: %v", ErrDecompress, pos, err)
		}
		data = decomp
	}

	return block{data: data}, nil
}

// readMetadataBlock reads the metadata block that starts at pos
// (pointing at its 2-byte header) and additionally returns the number of
// on-disk bytes the header and payload occupy.
func (i *Image) readMetadataBlock(pos int64) (block, int64, error) {
	buf, err := i.bytesAt(pos, 2)
	if err != nil {
		return block{}, 0, err
	}

	compressed, size := metadataHeader(binary.LittleEndian.Uint16(buf))

	blk, err := i.readBlock(pos+2, compressed, uint32(size), MetadataBlockSize)
	if err != nil {
		return block{}, 0, err
	}

	return blk, 2 + int64(size), nil
}

// DataBlock reads and decodes the data block at pos, described by the
// 32-bit header hdr from a regular file's block list. The decoded block
// is at most the filesystem's block size.
func (i *Image) DataBlock(pos int64, hdr uint32) ([]byte, error) {
	compressed, size := dataHeader(hdr)

	blk, err := i.readBlock(pos, compressed, size, int(i.sb.BlockSize))
	if err != nil {
		return nil, err
	}

	return blk.data, nil
}
