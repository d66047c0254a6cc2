/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package main

import "errors"

var ErrInvalidNumberOfArguments = errors.New("invalid number of arguments")
