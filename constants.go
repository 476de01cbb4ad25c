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
	"io/fs"
)

// On-disk inode type codes. The "L" forms are the large encodings that
// carry every field explicitly, including the extended attribute id; the
// plain forms are the space-saving compact encodings.
const (
	TypeDir uint16 = 1 + iota
	TypeReg
	TypeSymlink
	TypeBlockDev
	TypeCharDev
	TypeFifo
	TypeSocket
	TypeLDir
	TypeLReg
	TypeLSymlink
	TypeLBlockDev
	TypeLCharDev
	TypeLFifo
	TypeLSocket
)

const (
	typeMinValid = TypeDir
	typeMaxValid = TypeLSocket
)

// MetadataBlockSize is the decoded size of a metadata block. Metadata
// blocks are never larger than this, regardless of the filesystem's
// configured data block size.
const MetadataBlockSize = 8192

// Block header bits. The bit is set when the block is stored
// uncompressed, so callers negate it to get "is compressed".
const (
	metadataCompressedBit = 1 << 15 // 16-bit metadata block headers
	dataCompressedBit     = 1 << 24 // 32-bit data block headers
)

// XattrInvalid is the "no extended attributes" sentinel carried by
// compact inodes, which have no xattr field on disk.
const XattrInvalid = 0xffffffff

// FileType is the normalized type tag of a decoded inode.
type FileType uint8

const (
	FileTypeBad FileType = iota
	FileTypeRegular
	FileTypeDirectory
	FileTypeSymlink
	FileTypeBlockDevice
	FileTypeCharDevice
	FileTypeFifo
	FileTypeSocket
)

func (t FileType) String() string {
	switch t {
	case FileTypeRegular:
		return "regular file"
	case FileTypeDirectory:
		return "directory"
	case FileTypeSymlink:
		return "symlink"
	case FileTypeBlockDevice:
		return "block device"
	case FileTypeCharDevice:
		return "char device"
	case FileTypeFifo:
		return "fifo"
	case FileTypeSocket:
		return "socket"
	default:
		return "bad"
	}
}

// fileTypeOf maps an on-disk type code to the normalized tag. Both the
// compact and large encodings of a type map to the same tag.
func fileTypeOf(typeCode uint16) FileType {
	switch typeCode {
	case TypeDir, TypeLDir:
		return FileTypeDirectory
	case TypeReg, TypeLReg:
		return FileTypeRegular
	case TypeSymlink, TypeLSymlink:
		return FileTypeSymlink
	case TypeBlockDev, TypeLBlockDev:
		return FileTypeBlockDevice
	case TypeCharDev, TypeLCharDev:
		return FileTypeCharDevice
	case TypeFifo, TypeLFifo:
		return FileTypeFifo
	case TypeSocket, TypeLSocket:
		return FileTypeSocket
	}
	return FileTypeBad
}

// Values for mode_t.
const (
	S_IFMT   = 0170000
	S_IFSOCK = 0140000
	S_IFLNK  = 0120000
	S_IFREG  = 0100000
	S_IFBLK  = 060000
	S_IFDIR  = 040000
	S_IFCHR  = 020000
	S_IFIFO  = 010000
	S_ISUID  = 04000
	S_ISGID  = 02000
	S_ISVTX  = 01000
)

func fileModeFromStatMode(stMode uint16) fs.FileMode {
	mode := fs.FileMode(stMode) & fs.ModePerm

	switch stMode & S_IFMT {
	case S_IFDIR:
		mode |= fs.ModeDir
	case S_IFLNK:
		mode |= fs.ModeSymlink
	case S_IFBLK:
		mode |= fs.ModeDevice
	case S_IFCHR:
		mode |= fs.ModeDevice | fs.ModeCharDevice
	case S_IFIFO:
		mode |= fs.ModeNamedPipe
	case S_IFSOCK:
		mode |= fs.ModeSocket
	}

	// Handle setuid, setgid and sticky bits.
	if stMode&S_ISUID != 0 {
		mode |= fs.ModeSetuid
	}
	if stMode&S_ISGID != 0 {
		mode |= fs.ModeSetgid
	}
	if stMode&S_ISVTX != 0 {
		mode |= fs.ModeSticky
	}

	return mode
}
