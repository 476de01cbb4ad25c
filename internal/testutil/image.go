// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package testutil composes synthetic SquashFS images in memory so
// tests need no binary testdata.
package testutil

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"

	"github.com/dpeckett/squashfs"
	"github.com/dpeckett/squashfs/compression"
)

// Record packs the given fields little-endian in order, mirroring how
// on-disk structures are laid out.
func Record(fields ...any) []byte {
	var buf bytes.Buffer
	for _, f := range fields {
		if err := binary.Write(&buf, binary.LittleEndian, f); err != nil {
			panic(err)
		}
	}
	return buf.Bytes()
}

// BaseInode returns the 16-byte header common to every inode record,
// with fixed mode/uid/gid/mtime values tests don't care about.
func BaseInode(typeCode uint16, number uint32) []byte {
	return Record(
		typeCode,
		uint16(0o644),      // mode
		uint16(0),          // uid index
		uint16(0),          // gid index
		uint32(1234567890), // mtime
		number,
	)
}

// MetadataBlock prepends the 2-byte header to a metadata block payload.
// When compressed is true the payload must already be compressed; the
// header's uncompressed bit is left clear.
func MetadataBlock(payload []byte, compressed bool) []byte {
	hdr := uint16(len(payload)) & 0x7fff
	if !compressed {
		hdr |= 0x8000
	}
	return append(Record(hdr), payload...)
}

// CompressZlib deflates data for compressed-block fixtures.
func CompressZlib(data []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		panic(err)
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// InodeRef packs a metadata cursor position into a 64-bit inode id:
// the block offset relative to the inode table start in the high bits,
// the offset within the decoded block in the low 16.
func InodeRef(block uint64, offset uint16) uint64 {
	return block<<16 | uint64(offset)
}

// ValidSuperBlock returns a superblock that passes validation, with the
// inode table starting immediately after it.
func ValidSuperBlock(inodes uint32) squashfs.SuperBlock {
	return squashfs.SuperBlock{
		Magic:           squashfs.SuperBlockMagic,
		Inodes:          inodes,
		BlockSize:       131072,
		BlockLog:        17,
		Compression:     compression.Zlib,
		NoIDs:           1,
		Major:           squashfs.VersionMajor,
		Minor:           squashfs.VersionMinor,
		InodeTableStart: squashfs.SuperBlockSize,
	}
}

// BuildImage serializes the superblock followed by the inode table at
// sb.InodeTableStart, returning a reader over the whole image.
func BuildImage(sb squashfs.SuperBlock, inodeTable []byte) *bytes.Reader {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, sb); err != nil {
		panic(err)
	}
	for uint64(buf.Len()) < sb.InodeTableStart {
		buf.WriteByte(0)
	}
	buf.Write(inodeTable)
	return bytes.NewReader(buf.Bytes())
}
