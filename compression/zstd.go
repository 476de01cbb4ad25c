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
	"fmt"

	"github.com/klauspost/compress/zstd"
)

type zstdDecompressor struct {
	dec *zstd.Decoder
}

// NewZstd returns a decompressor for zstd-compressed blocks. The
// decoder memory limit matches the largest block size the format
// allows.
func NewZstd() (Decompressor, error) {
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(1<<20))
	if err != nil {
		return nil, err
	}

	return &zstdDecompressor{dec: dec}, nil
}

func (d *zstdDecompressor) Decompress(src []byte, maxSize int) ([]byte, error) {
	out, err := d.dec.DecodeAll(src, nil)
	if err != nil {
		return nil, err
	}
	if len(out) > maxSize {
		return nil, fmt.Errorf("decompressed output exceeds %d bytes", maxSize)
	}
	return out, nil
}
