// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package instrument wraps OpenAI API calls in spans carrying the flat
// dotted LLM attribute schema the export pipeline consumes.
//
// Each chat completion produces one span with attributes like
// "llm.input_messages.0.message.role" and "input.value" — the exact paths
// pkg/attrs reconstructs back into trees on export.
package instrument

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/anosys-ai/anosys-go/pkg/instrument"

// spanKindLLM tags the span for the endpoint's span-kind column.
const spanKindLLM = "LLM"

// Client wraps an OpenAI client so chat completions are traced.
//
// Thread Safety: safe for concurrent use.
type Client struct {
	api    *openai.Client
	tracer trace.Tracer
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithTracerProvider uses tp instead of the global provider. Tests use this
// to record into an in-memory exporter.
func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewClient wraps api. Spans go to the globally installed tracer provider,
// which export.Setup configures.
func NewClient(api *openai.Client, opts ...ClientOption) *Client {
	c := &Client{
		api:    api,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateChatCompletion performs the chat completion inside a span carrying
// the request and response in the flat dotted attribute schema. The call's
// result is returned unchanged.
func (c *Client) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	ctx, span := c.tracer.Start(ctx, "ChatCompletion",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(requestAttributes(req)...),
	)
	defer span.End()

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return resp, err
	}

	span.SetAttributes(responseAttributes(resp)...)
	span.SetStatus(codes.Ok, "")
	return resp, nil
}
