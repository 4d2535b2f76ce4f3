// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package capture wraps plain functions so each invocation posts a flattened
// record of its inputs and output to the logging endpoint.
//
// The wrapper redirects stdout for the duration of the call: the logged
// output is the call's return value when truthy, otherwise whatever the call
// printed. The wrapped function's behavior is otherwise unchanged — its
// return value passes through, and a POST failure is logged locally, never
// surfaced to the caller.
package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/anosys-ai/anosys-go/pkg/attrs"
	"github.com/anosys-ai/anosys-go/pkg/logapi"
	"github.com/anosys-ai/anosys-go/pkg/logging"
	"github.com/anosys-ai/anosys-go/pkg/remap"
)

var validate = validator.New()

// Func is the shape of a wrappable call: positional arguments in, one value
// out. Multi-return functions are wrapped by closing over them.
type Func func(args ...any) any

// Logger posts one record per wrapped invocation. Construct with New; a
// Logger is safe for concurrent use.
type Logger struct {
	client        *logapi.Client
	registry      *remap.Registry
	log           *slog.Logger
	includeCallID bool
}

// Option customizes a Logger.
type Option func(*Logger)

// WithTimeout sets the POST timeout.
func WithTimeout(d time.Duration) Option {
	return func(l *Logger) { l.client.WithTimeout(d) }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(l *Logger) { l.client.WithHTTPClient(h) }
}

// WithLogger replaces the default console logger.
func WithLogger(sl *slog.Logger) Option {
	return func(l *Logger) {
		if sl != nil {
			l.log = sl
		}
	}
}

// WithRegistry replaces the default capture-seeded registry.
func WithRegistry(r *remap.Registry) Option {
	return func(l *Logger) {
		if r != nil {
			l.registry = r
		}
	}
}

// WithCallID attaches a fresh UUID to every record under the "call_id" key,
// for joining capture records across systems.
func WithCallID() Option {
	return func(l *Logger) { l.includeCallID = true }
}

// New returns a Logger posting to apiURL. An empty apiURL falls back to the
// ANOSYS_API_URL environment variable, then to the placeholder endpoint.
func New(apiURL string, opts ...Option) (*Logger, error) {
	if apiURL == "" {
		apiURL = os.Getenv("ANOSYS_API_URL")
	}
	if apiURL == "" {
		apiURL = logapi.DefaultAPIURL
	}
	if err := validate.Var(apiURL, "required,url"); err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", apiURL, err)
	}
	l := &Logger{
		client:   logapi.NewClient(apiURL),
		registry: remap.NewRegistry(remap.CaptureSeed()),
		log:      logging.Default().With("component", "capture"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Wrap returns fn instrumented to post a record per invocation. source names
// the call site in the record.
//
// Stdout is redirected to a buffer for the duration of the call and restored
// on every exit path, including a panic propagating out of fn.
func (l *Logger) Wrap(source string, fn Func) Func {
	return func(args ...any) any {
		l.log.Info("call starting", "source", source, "args", len(args))

		var ret any
		printed, capErr := captureStdout(func() {
			ret = fn(args...)
		})
		if capErr != nil {
			l.log.Warn("stdout capture unavailable", "source", source, "error", capErr)
		}

		output := ret
		if !truthy(output) {
			output = strings.TrimSpace(printed)
		}
		l.log.Debug("captured output", "source", source, "output", output)

		record := make(map[string]any)
		assign := func(key string, v any) {
			record[key] = attrs.Normalize(v)
		}

		inputs := make([]any, len(args))
		for i, arg := range args {
			inputs[i] = attrs.StringifyOrNil(arg)
		}

		assign("source", attrs.StringifyOrNil(source))
		assign("input", inputs)
		assign("output", toJSONFallback(output))
		if l.includeCallID {
			assign("call_id", uuid.NewString())
		}

		l.post(source, record)
		return ret
	}
}

// post sends the record, falling back to console logging on failure.
func (l *Logger) post(source string, record map[string]any) {
	remapped, err := l.registry.Reassign(record, remap.DefaultCaptureIndex)
	if err != nil {
		l.log.Error("remap failed", "source", source, "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), logapi.DefaultTimeout)
	defer cancel()
	if err := l.client.Post(ctx, remapped); err != nil {
		l.log.Error("post failed", "source", source, "error", err, "payload", payloadJSON(record))
	}
}

func payloadJSON(record map[string]any) string {
	b, err := json.Marshal(record)
	if err != nil {
		return "<unserializable payload>"
	}
	return string(b)
}

// truthy mirrors the truthiness rules the record contract was built on: nil,
// false, zero numbers, and empty strings or containers do not count as
// output.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case float32:
		return t != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}
