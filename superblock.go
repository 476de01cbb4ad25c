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
	"fmt"
)

const (
	// Definitions for superblock.
	SuperBlockMagic = 0x73717368
	SuperBlockSize  = 96
	VersionMajor    = 4
	VersionMinor    = 0

	// Valid range for the data block size.
	MinBlockSize = 4096
	MaxBlockSize = 1 << 20
)

// Superblock flags. This is not exhaustive, unused flags are not listed.
const (
	FlagUncompressedInodes = 0x0001
	FlagUncompressedData   = 0x0002
	FlagNoFragments        = 0x0010
	FlagExportable         = 0x0080
	FlagCompressorOptions  = 0x0400
)

// SuperBlock represents the on-disk superblock.
type SuperBlock struct {
	Magic               uint32 // Filesystem magic number
	Inodes              uint32 // Total inode count
	MkfsTime            uint32 // Creation time of the filesystem
	BlockSize           uint32 // Data block size in bytes
	Fragments           uint32 // Total fragment count
	Compression         uint16 // Compression algorithm id
	BlockLog            uint16 // Data block size in bit shift
	Flags               uint16 // Superblock flags
	NoIDs               uint16 // Number of uid/gid table entries
	Major               uint16 // Format major version
	Minor               uint16 // Format minor version
	RootInode           uint64 // Packed reference to the root inode
	BytesUsed           uint64 // Bytes used by the filesystem
	IDTableStart        uint64 // Byte offset of the uid/gid table
	XattrIDTableStart   uint64 // Byte offset of the xattr id table
	InodeTableStart     uint64 // Byte offset of the inode table
	DirectoryTableStart uint64 // Byte offset of the directory table
	FragmentTableStart  uint64 // Byte offset of the fragment table
	ExportTableStart    uint64 // Byte offset of the export table
}

func (sb *SuperBlock) validate() error {
	if sb.Magic != SuperBlockMagic {
		return fmt.Errorf("unknown magic: 0x%x", sb.Magic)
	}

	if sb.Major != VersionMajor || sb.Minor != VersionMinor {
		return fmt.Errorf("unsupported version: %d.%d", sb.Major, sb.Minor)
	}

	if sb.BlockSize < MinBlockSize || sb.BlockSize > MaxBlockSize ||
		sb.BlockSize&(sb.BlockSize-1) != 0 {
		return fmt.Errorf("invalid block size: %d", sb.BlockSize)
	}

	if uint32(1)<<sb.BlockLog != sb.BlockSize {
		return fmt.Errorf("block log %d does not match block size %d", sb.BlockLog, sb.BlockSize)
	}

	return nil
}
