//go:build !windows

package jlink

import "syscall"

var termSignal = syscall.SIGTERM
