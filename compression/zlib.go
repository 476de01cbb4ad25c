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
	"bytes"
	"compress/zlib"
)

type zlibDecompressor struct{}

// NewZlib returns a decompressor for zlib-compressed blocks, the
// SquashFS default.
func NewZlib() Decompressor {
	return zlibDecompressor{}
}

func (zlibDecompressor) Decompress(src []byte, maxSize int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return readBounded(zr, maxSize)
}
