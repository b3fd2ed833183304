//go:build windows

package jlink

import "os"

var termSignal = os.Kill
