// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package capture

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
)

// stdoutMu serializes stdout swaps: concurrent wrapped calls would otherwise
// restore each other's pipe ends out of order.
var stdoutMu sync.Mutex

// captureStdout runs fn with os.Stdout redirected to a pipe and returns what
// was written. The original stdout is restored on every exit path, including
// a panic propagating out of fn. When the pipe cannot be created, fn still
// runs and the error is reported alongside empty output.
func captureStdout(fn func()) (output string, err error) {
	stdoutMu.Lock()
	defer stdoutMu.Unlock()

	r, w, pipeErr := os.Pipe()
	if pipeErr != nil {
		fn()
		return "", fmt.Errorf("create stdout pipe: %w", pipeErr)
	}

	orig := os.Stdout
	os.Stdout = w

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = io.Copy(&buf, r)
	}()

	defer func() {
		os.Stdout = orig
		_ = w.Close()
		<-done
		_ = r.Close()
		output = buf.String()
	}()

	fn()
	return
}
