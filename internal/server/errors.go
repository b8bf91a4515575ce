// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	errAlreadyRunning = errors.New("sync endpoint is already running")
)
