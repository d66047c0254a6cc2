/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package dump

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/valyala/bytebufferpool"

	"github.com/attrio/attrio/pkg/coreutils"
	"github.com/attrio/attrio/pkg/irows"
)

// Encode writes the whole relation to w, one row per line in ascending id
// order. Each line stores the id as a radix-36 delta from the previous line
// ("+" for the common +1 case); parent and type pointers are written only
// when they differ from the previous line; order is written only when it
// differs from the singleton default. Returns the number of rows written.
func Encode(ctx context.Context, storage irows.IRowStorage, w io.Writer) (rows int, err error) {
	bw := bufio.NewWriter(w)
	var prev irows.Row

	err = storage.ReadAll(ctx, func(r irows.Row) error {
		if err := writeLine(bw, prev, r); err != nil {
			return err
		}
		prev = r
		rows++
		if rows%flushEvery == 0 {
			return bw.Flush()
		}
		return nil
	})
	if err != nil {
		return rows, coreutils.ErrStorageFailure("encode dump", irows.NullID, err)
	}
	return rows, bw.Flush()
}

func writeLine(w *bufio.Writer, prev, r irows.Row) error {
	delta := uint64(r.ID) - uint64(prev.ID)
	if delta == 1 {
		w.WriteString(plusSentinel)
	} else {
		w.WriteString(strconv.FormatUint(delta, idRadix))
	}
	w.WriteString(fieldDelim)
	if r.Parent != prev.Parent {
		w.WriteString(strconv.FormatUint(uint64(r.Parent), idRadix))
	}
	w.WriteString(fieldDelim)
	if r.Type != prev.Type {
		w.WriteString(strconv.FormatUint(uint64(r.Type), idRadix))
	}
	w.WriteString(fieldDelim)
	if r.Order != irows.DefaultOrder {
		w.WriteString(strconv.FormatInt(int64(r.Order), idRadix))
	}
	w.WriteString(fieldDelim)
	w.WriteString(escapeValue(r.Value))
	return w.WriteByte('\n')
}

func escapeValue(s string) string {
	if !strings.ContainsAny(s, "\\\r\n") {
		return s
	}
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			bb.WriteString(escBackslash)
		case '\r':
			bb.WriteString(escCR)
		case '\n':
			bb.WriteString(escLF)
		default:
			bb.WriteByte(s[i])
		}
	}
	return bb.String()
}
