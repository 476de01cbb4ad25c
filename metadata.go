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
	"bytes"
	"encoding/binary"
	"fmt"
)

// BlockRun is a position in the metadata region: the byte offset of the
// current metadata block within the image, and the byte offset within
// that block's decoded content. The metadata region is a logical byte
// stream stored as a chain of independently compressed blocks; a
// BlockRun makes the block boundaries transparent to sequential reads.
type BlockRun struct {
	Block  int64
	Offset int
}

// MetadataGet fills dst from the metadata stream at cur, spanning
// physical block boundaries as needed, and advances cur to point just
// past the last byte consumed.
//
// On error cur is left at an indeterminate mid-advance position; the
// caller must discard the operation in progress rather than resume.
func (i *Image) MetadataGet(cur *BlockRun, dst []byte) error {
	return i.metadataConsume(cur, dst, len(dst))
}

// MetadataSkip advances cur by n bytes of the metadata stream without
// materializing them. Skipped blocks are still read and decompressed,
// since their decoded sizes determine the cursor arithmetic.
func (i *Image) MetadataSkip(cur *BlockRun, n int) error {
	return i.metadataConsume(cur, nil, n)
}

func (i *Image) metadataConsume(cur *BlockRun, dst []byte, n int) error {
	pos := cur.Block
	for n > 0 {
		blk, consumed, err := i.readMetadataBlock(pos)
		if err != nil {
			return err
		}

		// The next block starts right after this one's header and
		// payload, even if this call drains only part of it; a later
		// call re-fetches the current block and resumes at cur.Offset.
		pos += consumed

		if cur.Offset >= len(blk.data) {
			return fmt.Errorf("%w: metadata cursor offset %d beyond block size %d",
				ErrIO, cur.Offset, len(blk.data))
		}

		take := len(blk.data) - cur.Offset
		if take > n {
			take = n
		}
		if dst != nil {
			copy(dst[:take], blk.data[cur.Offset:])
			dst = dst[take:]
		}

		n -= take
		cur.Offset += take
		if cur.Offset == len(blk.data) {
			cur.Block = pos
			cur.Offset = 0
		}
	}
	return nil
}

// metadataUnmarshal decodes a little-endian on-disk structure from the
// metadata stream at cur, advancing cur past it. One routine serves
// every record shape; the field layout is described by the struct
// definition itself.
func (i *Image) metadataUnmarshal(cur *BlockRun, data any) error {
	buf := make([]byte, binary.Size(data))
	if err := i.MetadataGet(cur, buf); err != nil {
		return err
	}

	return binary.Read(bytes.NewReader(buf), binary.LittleEndian, data)
}
