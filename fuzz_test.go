// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package squashfs_test

import (
	"errors"
	"testing"

	"github.com/dpeckett/squashfs"
	"github.com/dpeckett/squashfs/compression"
	"github.com/dpeckett/squashfs/internal/testutil"
)

// FuzzInode feeds arbitrary bytes to the inode decoder as a whole inode
// table. Whatever the input, decoding must end in one of the defined
// error kinds or a validated inode, never a panic or out-of-range
// access.
func FuzzInode(f *testing.F) {
	f.Add(append(testutil.BaseInode(squashfs.TypeReg, 1),
		testutil.Record(uint32(0), uint32(0), uint32(0), uint32(0))...), false, uint16(0))
	f.Add(testutil.BaseInode(squashfs.TypeFifo, 1), false, uint16(0))
	f.Add(testutil.BaseInode(0xffff, 1), false, uint16(3))
	f.Add([]byte{0x01}, true, uint16(0))
	f.Add([]byte{}, false, uint16(0))

	f.Fuzz(func(t *testing.T, table []byte, compressed bool, offset uint16) {
		if len(table) > 8192 {
			table = table[:8192]
		}

		img, err := squashfs.OpenImageWithDecompressor(
			testutil.BuildImage(testutil.ValidSuperBlock(10), testutil.MetadataBlock(table, compressed)),
			compression.NewZlib())
		if err != nil {
			t.Fatalf("synthetic image must open: %v", err)
		}

		ino, err := img.Inode(testutil.InodeRef(0, offset))
		if err != nil {
			if !errors.Is(err, squashfs.ErrIO) &&
				!errors.Is(err, squashfs.ErrDecompress) &&
				!errors.Is(err, squashfs.ErrInvalidInodeType) &&
				!errors.Is(err, squashfs.ErrInvalidInode) {
				t.Fatalf("undefined error kind: %v", err)
			}
			return
		}

		if ino.Type == squashfs.FileTypeBad {
			t.Fatalf("decoder returned a bad inode without error")
		}
		if ino.Number < 1 || ino.Number > img.Inodes() {
			t.Fatalf("decoder returned an out-of-range inode number %d", ino.Number)
		}
	})
}
