/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package bbolt

import "os"

const (
	rowsBucketName   = "rows"
	parentBucketName = "parentIdx"
	typeBucketName   = "typeIdx"
	metaBucketName   = "meta"

	lastIDKey = "lastID"
)

const (
	fileModeDir = os.FileMode(0o755)
	fileModeDB  = os.FileMode(0o644)
)
