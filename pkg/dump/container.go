/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package dump

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/klauspost/compress/zip"

	"github.com/attrio/attrio/pkg/coreutils"
	"github.com/attrio/attrio/pkg/irows"
)

// EncodeZip writes the dump wrapped in a single-entry zip container.
func EncodeZip(ctx context.Context, storage irows.IRowStorage, w io.Writer) (rows int, err error) {
	zw := zip.NewWriter(w)
	entry, err := zw.Create(zipEntryName)
	if err != nil {
		return 0, coreutils.ErrInvalidArgument("cannot create dump container: %v", err)
	}
	if rows, err = Encode(ctx, storage, entry); err != nil {
		zw.Close()
		return rows, err
	}
	return rows, zw.Close()
}

// unwrapContainer sniffs the stream and, when it is a zip container, returns
// a reader over its single entry. Anything else passes through untouched.
func unwrapContainer(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(zipMagic))
	if err != nil || !bytes.Equal(magic, zipMagic) {
		return br, nil
	}

	// zip needs random access, the container is read whole
	data, err := io.ReadAll(br)
	if err != nil {
		return nil, coreutils.ErrInvalidArgument("dump container is not readable: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, coreutils.ErrInvalidArgument("dump container is not a zip archive: %v", err)
	}
	if len(zr.File) != 1 {
		return nil, coreutils.ErrInvalidArgument("dump container holds %d entries instead of 1", len(zr.File))
	}
	entry, err := zr.File[0].Open()
	if err != nil {
		return nil, coreutils.ErrInvalidArgument("dump container entry is not readable: %v", err)
	}
	return entry, nil
}
