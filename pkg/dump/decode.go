/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package dump

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/attrio/attrio/pkg/coreutils"
	"github.com/attrio/attrio/pkg/irows"
)

// Decode restores a dump into storage. The stream may start with a byte
// order marker and may be a raw text stream or a single-entry zip container.
// Rows whose ids already exist are skipped, so re-applying the same dump is
// harmless. Returns the number of rows stored and the number skipped.
func Decode(ctx context.Context, storage irows.IRowStorage, r io.Reader) (stored, skipped int, err error) {
	text, err := unwrapContainer(r)
	if err != nil {
		return 0, 0, err
	}
	text = transform.NewReader(text, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	scanner := bufio.NewScanner(text)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var prev irows.Row
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		row, err := parseLine(line, prev)
		if err != nil {
			return stored, skipped, coreutils.EnrichError(err, "line %d", lineNo)
		}
		prev = row

		switch err := storage.InsertExact(row); {
		case err == nil:
			stored++
		case errors.Is(err, irows.ErrRowExists):
			skipped++
		default:
			return stored, skipped, coreutils.ErrStorageFailure("decode dump", row.ID, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return stored, skipped, coreutils.ErrInvalidArgument("dump is not readable: %v", err)
	}
	return stored, skipped, nil
}

// parseLine decodes one line against the previous row's running values.
func parseLine(line string, prev irows.Row) (irows.Row, error) {
	parts := strings.SplitN(line, fieldDelim, 5)
	if len(parts) != 5 {
		return irows.Row{}, coreutils.ErrInvalidArgument("%d field(s) instead of 5", len(parts))
	}

	row := irows.Row{Parent: prev.Parent, Type: prev.Type, Order: irows.DefaultOrder}

	if parts[0] == plusSentinel {
		row.ID = prev.ID + 1
	} else {
		delta, err := strconv.ParseUint(parts[0], idRadix, 64)
		if err != nil || delta == 0 {
			return irows.Row{}, coreutils.ErrInvalidArgument("bad id delta %q", parts[0])
		}
		row.ID = prev.ID + irows.ID(delta)
	}
	if parts[1] != "" {
		v, err := strconv.ParseUint(parts[1], idRadix, 64)
		if err != nil {
			return irows.Row{}, coreutils.ErrInvalidArgument("bad parent %q", parts[1])
		}
		row.Parent = irows.ID(v)
	}
	if parts[2] != "" {
		v, err := strconv.ParseUint(parts[2], idRadix, 64)
		if err != nil {
			return irows.Row{}, coreutils.ErrInvalidArgument("bad type %q", parts[2])
		}
		row.Type = irows.ID(v)
	}
	if parts[3] != "" {
		v, err := strconv.ParseInt(parts[3], idRadix, 64)
		if err != nil {
			return irows.Row{}, coreutils.ErrInvalidArgument("bad order %q", parts[3])
		}
		row.Order = int(v)
	}

	var err error
	if row.Value, err = unescapeValue(parts[4]); err != nil {
		return irows.Row{}, err
	}
	return row, nil
}

func unescapeValue(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		i++
		if i == len(s) {
			return "", coreutils.ErrInvalidArgument("value ends with a bare escape")
		}
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case 'r':
			b.WriteByte('\r')
		case 'n':
			b.WriteByte('\n')
		default:
			return "", coreutils.ErrInvalidArgument("unknown escape \\%c", s[i])
		}
	}
	return b.String(), nil
}
