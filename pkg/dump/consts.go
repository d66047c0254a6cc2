/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package dump

// The dump is a durable artifact. Delimiter, sentinel and escape tokens are
// frozen: changing any of them breaks every stored dump.
const (
	fieldDelim   = "|"
	plusSentinel = "+"
	idRadix      = 36

	escBackslash = `\\`
	escCR        = `\r`
	escLF        = `\n`

	// flushEvery bounds how many encoded rows are buffered before the
	// writer is flushed.
	flushEvery = 1024

	// maxLineBytes bounds a single decoded line (id, pointers and the
	// escaped value payload).
	maxLineBytes = 1 << 20

	zipEntryName = "relation.dump"
)

var zipMagic = []byte{'P', 'K', 0x03, 0x04}
