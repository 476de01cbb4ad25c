// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package squashfs

import "errors"

// Sentinel errors. Every failure returned by the decoder wraps one of
// these, so callers can classify it with errors.Is.
var (
	// ErrIO is returned for a short or failed read from the backing store.
	ErrIO = errors.New("squashfs: i/o error")

	// ErrDecompress is returned for a corrupt compressed stream, or when
	// the decompressed output would exceed its bound.
	ErrDecompress = errors.New("squashfs: decompression failed")

	// ErrInvalidInodeType is returned when an inode's type tag lies
	// outside the valid on-disk range.
	ErrInvalidInodeType = errors.New("squashfs: invalid inode type")

	// ErrInvalidInode is returned when a decoded inode fails validation.
	ErrInvalidInode = errors.New("squashfs: invalid inode")
)
