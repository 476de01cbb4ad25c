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

	"github.com/ulikunitz/xz"
)

type xzDecompressor struct{}

// NewXZ returns a decompressor for xz-compressed blocks.
func NewXZ() Decompressor {
	return xzDecompressor{}
}

func (xzDecompressor) Decompress(src []byte, maxSize int) ([]byte, error) {
	xr, err := xz.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}

	return readBounded(xr, maxSize)
}
