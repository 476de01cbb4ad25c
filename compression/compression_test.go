// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package compression_test

import (
	"bytes"
	"compress/zlib"
	"testing"

	"github.com/dpeckett/squashfs/compression"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

var plaintext = bytes.Repeat([]byte("squashfs metadata "), 64)

func compressZlib(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestZlib(t *testing.T) {
	dec := compression.NewZlib()

	t.Run("RoundTrip", func(t *testing.T) {
		out, err := dec.Decompress(compressZlib(t, plaintext), len(plaintext))
		require.NoError(t, err)
		require.Equal(t, plaintext, out)
	})

	t.Run("ExceedsBound", func(t *testing.T) {
		_, err := dec.Decompress(compressZlib(t, plaintext), len(plaintext)-1)
		require.Error(t, err)
	})

	t.Run("CorruptStream", func(t *testing.T) {
		_, err := dec.Decompress([]byte{0xde, 0xad, 0xbe, 0xef}, 1024)
		require.Error(t, err)
	})
}

func TestXZ(t *testing.T) {
	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = xw.Write(plaintext)
	require.NoError(t, err)
	require.NoError(t, xw.Close())

	dec := compression.NewXZ()

	t.Run("RoundTrip", func(t *testing.T) {
		out, err := dec.Decompress(buf.Bytes(), len(plaintext))
		require.NoError(t, err)
		require.Equal(t, plaintext, out)
	})

	t.Run("ExceedsBound", func(t *testing.T) {
		_, err := dec.Decompress(buf.Bytes(), len(plaintext)-1)
		require.Error(t, err)
	})
}

func TestLZ4(t *testing.T) {
	var c lz4.Compressor
	dst := make([]byte, lz4.CompressBlockBound(len(plaintext)))
	n, err := c.CompressBlock(plaintext, dst)
	require.NoError(t, err)
	require.NotZero(t, n)

	dec := compression.NewLZ4()

	t.Run("RoundTrip", func(t *testing.T) {
		out, err := dec.Decompress(dst[:n], len(plaintext))
		require.NoError(t, err)
		require.Equal(t, plaintext, out)
	})

	t.Run("ExceedsBound", func(t *testing.T) {
		_, err := dec.Decompress(dst[:n], len(plaintext)-1)
		require.Error(t, err)
	})
}

func TestZstd(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll(plaintext, nil)
	require.NoError(t, enc.Close())

	dec, err := compression.NewZstd()
	require.NoError(t, err)

	t.Run("RoundTrip", func(t *testing.T) {
		out, err := dec.Decompress(compressed, len(plaintext))
		require.NoError(t, err)
		require.Equal(t, plaintext, out)
	})

	t.Run("ExceedsBound", func(t *testing.T) {
		_, err := dec.Decompress(compressed, len(plaintext)-1)
		require.Error(t, err)
	})

	t.Run("CorruptStream", func(t *testing.T) {
		_, err := dec.Decompress([]byte{0x01, 0x02, 0x03}, 1024)
		require.Error(t, err)
	})
}

func TestNew(t *testing.T) {
	for _, id := range []uint16{compression.Zlib, compression.XZ, compression.LZ4, compression.Zstd} {
		dec, err := compression.New(id)
		require.NoError(t, err, "id %d", id)
		require.NotNil(t, dec, "id %d", id)
	}

	for _, id := range []uint16{compression.Lzma, compression.Lzo} {
		_, err := compression.New(id)
		require.ErrorIs(t, err, compression.ErrUnsupported, "id %d", id)
	}

	_, err := compression.New(99)
	require.Error(t, err)
}
