package executor

import (
	"bytes"
	"runtime"
	"strconv"
)

// goid extracts the calling goroutine's runtime id by parsing the
// header line of its own stack trace. Go deliberately exposes no
// public goroutine-local storage, and the corpus this executor is
// built from carries no goroutine-local-storage library, so this is
// the stdlib-only substitute for the thread-local worker pointer the
// reference scheduler keeps: it is used exclusively to answer
// ThisWorkerID from inside a running task body, never on any path that
// needs to be fast.
func goid() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// "goroutine 123 [running]:\n..."
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return -1
	}
	id, err := strconv.ParseInt(string(fields[1]), 10, 64)
	if err != nil {
		return -1
	}
	return id
}
