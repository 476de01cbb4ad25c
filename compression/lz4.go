// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package compression

import (
	"github.com/pierrec/lz4/v4"
)

type lz4Decompressor struct{}

// NewLZ4 returns a decompressor for lz4-compressed blocks. SquashFS
// stores them in the lz4 block format, not the frame format.
func NewLZ4() Decompressor {
	return lz4Decompressor{}
}

func (lz4Decompressor) Decompress(src []byte, maxSize int) ([]byte, error) {
	dst := make([]byte, maxSize)
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}
