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
	"io/fs"
)

// inodeBase is the 16-byte header common to every on-disk inode record.
type inodeBase struct {
	Type   uint16 // Inode type code
	Mode   uint16 // File mode
	UID    uint16 // Index into the uid table
	GID    uint16 // Index into the gid table
	Mtime  uint32 // Last modification time
	Number uint32 // Inode number
}

// Variant-specific fields that trail the common header. Field order and
// widths are the wire contract, all little-endian.

type regInode struct {
	StartBlock uint32 // Byte offset of the first data block
	Fragment   uint32 // Fragment table index
	Offset     uint32 // Byte offset within the fragment block
	FileSize   uint32 // File size in bytes
}

type lregInode struct {
	StartBlock uint64 // Byte offset of the first data block
	FileSize   uint64 // File size in bytes
	Sparse     uint64 // Bytes saved by sparse block elision
	Nlink      uint32 // Number of hard links
	Fragment   uint32 // Fragment table index
	Offset     uint32 // Byte offset within the fragment block
	Xattr      uint32 // Extended attribute id
}

type dirInode struct {
	StartBlock  uint32 // Metadata block offset of the directory listing
	Nlink       uint32 // Number of hard links
	FileSize    uint16 // Directory listing size in bytes
	Offset      uint16 // Offset within the metadata block
	ParentInode uint32 // Inode number of the parent directory
}

type ldirInode struct {
	Nlink       uint32 // Number of hard links
	FileSize    uint32 // Directory listing size in bytes
	StartBlock  uint32 // Metadata block offset of the directory listing
	ParentInode uint32 // Inode number of the parent directory
	IndexCount  uint16 // Number of directory index entries that follow
	Offset      uint16 // Offset within the metadata block
	Xattr       uint32 // Extended attribute id
}

type symlinkInode struct {
	Nlink      uint32 // Number of hard links
	TargetSize uint32 // Length of the target path that follows
}

type devInode struct {
	Nlink uint32 // Number of hard links
	Rdev  uint32 // Packed device number
}

type ldevInode struct {
	Nlink uint32 // Number of hard links
	Rdev  uint32 // Packed device number
	Xattr uint32 // Extended attribute id
}

type ipcInode struct {
	Nlink uint32 // Number of hard links
}

type lipcInode struct {
	Nlink uint32 // Number of hard links
	Xattr uint32 // Extended attribute id
}

// Payload carries the variant-specific fields of a decoded inode. It is
// one of Device, Regular, or Directory. Symlink and IPC inodes carry
// only the common fields and have a nil payload.
type Payload interface {
	isPayload()
}

// Device describes a block or character device inode.
type Device struct {
	Major uint32
	Minor uint32
}

// Regular describes where a regular file's content lives: its first
// data block, and the fragment holding its tail end, if any.
type Regular struct {
	StartBlock uint64
	FragIndex  uint32
	FragOffset uint32
}

// Directory describes where a directory's listing lives in the
// directory table, and how many index entries trail the inode record.
type Directory struct {
	StartBlock  uint32
	Offset      uint16
	IndexCount  uint16
	ParentInode uint32
}

func (Device) isPayload()    {}
func (Regular) isPayload()   {}
func (Directory) isPayload() {}

// Inode is the normalized in-memory form of an on-disk inode record. It
// is a value type owned entirely by its requester and holds no
// references into any decoded block.
type Inode struct {
	// Type is the normalized type tag.
	Type FileType

	// Common header fields.
	Mode   uint16
	UID    uint16
	GID    uint16
	Mtime  uint32
	Number uint32

	// Nlink is the hard link count. The compact regular-file encoding
	// omits it on disk; it is then fixed at 1.
	Nlink uint32

	// Xattr is the extended attribute id, or XattrInvalid when the
	// record carries none.
	Xattr uint32

	// Size is the content size: file size for regular files, listing
	// size for directories, target length for symlinks, 0 otherwise.
	Size uint64

	// Next points just past the decoded record, for callers that must
	// then read variant-specific trailing metadata such as directory
	// index entries or the symlink target text.
	Next BlockRun

	// Payload holds the variant-specific fields, or nil.
	Payload Payload
}

// IsDir indicates whether the inode is a directory.
func (ino *Inode) IsDir() bool {
	return ino.Type == FileTypeDirectory
}

// IsRegular indicates whether the inode is a regular file.
func (ino *Inode) IsRegular() bool {
	return ino.Type == FileTypeRegular
}

// IsSymlink indicates whether the inode is a symbolic link.
func (ino *Inode) IsSymlink() bool {
	return ino.Type == FileTypeSymlink
}

// FileMode returns the file type and permissions.
func (ino *Inode) FileMode() fs.FileMode {
	return fileModeFromStatMode(ino.Mode)
}

// inodeRun resolves a packed 64-bit inode id to a metadata cursor. The
// high bits carry the block offset relative to the start of the inode
// table, the low 16 bits the offset within the decoded block.
func inodeRun(id uint64, inodeTableStart uint64) BlockRun {
	return BlockRun{
		Block:  int64((id >> 16) + inodeTableStart),
		Offset: int(id & 0xffff),
	}
}

// RootInode returns the root directory inode of this image.
func (i *Image) RootInode() (Inode, error) {
	return i.Inode(i.sb.RootInode)
}

// Inode decodes the inode record identified by the packed id. Decoding
// is a strict linear pipeline: resolve the position, decode the common
// header, dispatch on the type code, decode the variant fields, then
// validate. On any failure no inode is returned.
func (i *Image) Inode(id uint64) (Inode, error) {
	cur := inodeRun(id, i.sb.InodeTableStart)

	var base inodeBase
	if err := i.metadataUnmarshal(&cur, &base); err != nil {
		return Inode{}, err
	}

	ino := Inode{
		Type:   fileTypeOf(base.Type),
		Mode:   base.Mode,
		UID:    base.UID,
		GID:    base.GID,
		Mtime:  base.Mtime,
		Number: base.Number,
		Xattr:  XattrInvalid,
		Next:   cur,
	}

	var err error
	switch base.Type {
	case TypeReg:
		err = i.initRegInode(&ino)
	case TypeLReg:
		err = i.initLRegInode(&ino)
	case TypeDir:
		err = i.initDirInode(&ino)
	case TypeLDir:
		err = i.initLDirInode(&ino)
	case TypeSymlink, TypeLSymlink:
		err = i.initSymlinkInode(&ino)
	case TypeBlockDev, TypeCharDev:
		err = i.initDevInode(&ino)
	case TypeLBlockDev, TypeLCharDev:
		err = i.initLDevInode(&ino)
	case TypeSocket, TypeFifo:
		err = i.initIPCInode(&ino)
	case TypeLSocket, TypeLFifo:
		err = i.initLIPCInode(&ino)
	default:
		return Inode{}, fmt.Errorf("%w: type code %d at id 0x%x", ErrInvalidInodeType, base.Type, id)
	}
	if err != nil {
		return Inode{}, err
	}

	if err := i.verifyInode(base.Type, &ino); err != nil {
		return Inode{}, err
	}

	return ino, nil
}

// verifyInode rejects a fully decoded inode whose fields are out of
// range for this image. A rejected inode must not be used at all.
func (i *Image) verifyInode(typeCode uint16, ino *Inode) error {
	if typeCode < typeMinValid || typeCode > typeMaxValid {
		return fmt.Errorf("%w: type code %d", ErrInvalidInodeType, typeCode)
	}

	// Inode numbers run from 1 to the superblock's inode count; 0 is
	// never valid because the filesystem always has at least a root.
	if ino.Number < 1 || ino.Number > i.sb.Inodes {
		return fmt.Errorf("%w: inode number %d outside [1, %d]", ErrInvalidInode, ino.Number, i.sb.Inodes)
	}

	// The root directory's parent is by convention the inode count
	// plus one, hence the extended upper bound.
	if dir, ok := ino.Payload.(Directory); ok {
		if dir.ParentInode < 1 || dir.ParentInode > i.sb.Inodes+1 {
			return fmt.Errorf("%w: parent inode %d outside [1, %d]",
				ErrInvalidInode, dir.ParentInode, i.sb.Inodes+1)
		}
	}

	return nil
}

func (i *Image) initRegInode(ino *Inode) error {
	var temp regInode
	if err := i.metadataUnmarshal(&ino.Next, &temp); err != nil {
		return err
	}

	// The compact encoding omits the link count.
	ino.Nlink = 1
	ino.Size = uint64(temp.FileSize)
	ino.Payload = Regular{
		StartBlock: uint64(temp.StartBlock),
		FragIndex:  temp.Fragment,
		FragOffset: temp.Offset,
	}

	return nil
}

func (i *Image) initLRegInode(ino *Inode) error {
	var temp lregInode
	if err := i.metadataUnmarshal(&ino.Next, &temp); err != nil {
		return err
	}

	ino.Nlink = temp.Nlink
	ino.Size = temp.FileSize
	ino.Xattr = temp.Xattr
	ino.Payload = Regular{
		StartBlock: temp.StartBlock,
		FragIndex:  temp.Fragment,
		FragOffset: temp.Offset,
	}

	return nil
}

func (i *Image) initDirInode(ino *Inode) error {
	var temp dirInode
	if err := i.metadataUnmarshal(&ino.Next, &temp); err != nil {
		return err
	}

	ino.Nlink = temp.Nlink
	ino.Size = uint64(temp.FileSize)
	ino.Payload = Directory{
		StartBlock:  temp.StartBlock,
		Offset:      temp.Offset,
		IndexCount:  0,
		ParentInode: temp.ParentInode,
	}

	return nil
}

func (i *Image) initLDirInode(ino *Inode) error {
	var temp ldirInode
	if err := i.metadataUnmarshal(&ino.Next, &temp); err != nil {
		return err
	}

	ino.Nlink = temp.Nlink
	ino.Size = uint64(temp.FileSize)
	ino.Xattr = temp.Xattr
	ino.Payload = Directory{
		StartBlock:  temp.StartBlock,
		Offset:      temp.Offset,
		IndexCount:  temp.IndexCount,
		ParentInode: temp.ParentInode,
	}

	return nil
}

func (i *Image) initSymlinkInode(ino *Inode) error {
	var temp symlinkInode
	if err := i.metadataUnmarshal(&ino.Next, &temp); err != nil {
		return err
	}

	// The target text follows the record; it is read by the path
	// layer through ino.Next, not decoded here.
	ino.Nlink = temp.Nlink
	ino.Size = uint64(temp.TargetSize)

	return nil
}

func (i *Image) initDevInode(ino *Inode) error {
	var temp devInode
	if err := i.metadataUnmarshal(&ino.Next, &temp); err != nil {
		return err
	}

	ino.Nlink = temp.Nlink
	ino.Payload = unpackDevice(temp.Rdev)

	return nil
}

func (i *Image) initLDevInode(ino *Inode) error {
	var temp ldevInode
	if err := i.metadataUnmarshal(&ino.Next, &temp); err != nil {
		return err
	}

	ino.Nlink = temp.Nlink
	ino.Xattr = temp.Xattr
	ino.Payload = unpackDevice(temp.Rdev)

	return nil
}

func (i *Image) initIPCInode(ino *Inode) error {
	var temp ipcInode
	if err := i.metadataUnmarshal(&ino.Next, &temp); err != nil {
		return err
	}

	ino.Nlink = temp.Nlink

	return nil
}

func (i *Image) initLIPCInode(ino *Inode) error {
	var temp lipcInode
	if err := i.metadataUnmarshal(&ino.Next, &temp); err != nil {
		return err
	}

	ino.Nlink = temp.Nlink
	ino.Xattr = temp.Xattr

	return nil
}

// unpackDevice splits a packed on-disk device number into its major and
// minor parts, following the standard major/minor packing convention.
func unpackDevice(rdev uint32) Device {
	return Device{
		Major: (rdev >> 8) & 0xfff,
		Minor: (rdev & 0xff) | ((rdev >> 12) & 0xfff00),
	}
}
