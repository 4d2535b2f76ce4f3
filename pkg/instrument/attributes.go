// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package instrument

import (
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
)

const mimeJSON = "application/json"

// requestAttributes flattens the request into the dotted schema.
func requestAttributes(req openai.ChatCompletionRequest) []attribute.KeyValue {
	kvs := []attribute.KeyValue{
		attribute.String("fi.span.kind", spanKindLLM),
		attribute.String("llm.model_name", req.Model),
		attribute.String("llm.invocation_parameters", invocationParameters(req)),
	}

	for i, msg := range req.Messages {
		prefix := fmt.Sprintf("llm.input_messages.%d.message.", i)
		kvs = append(kvs,
			attribute.String(prefix+"role", msg.Role),
			attribute.String(prefix+"content", msg.Content),
		)
	}

	for i, tool := range req.Tools {
		if tool.Function == nil {
			continue
		}
		kvs = append(kvs, attribute.String(
			fmt.Sprintf("llm.tools.%d.tool.json_schema", i),
			marshalString(tool.Function),
		))
	}

	kvs = append(kvs,
		attribute.String("input.value", marshalString(req.Messages)),
		attribute.String("input.mime_type", mimeJSON),
	)
	return kvs
}

// responseAttributes flattens the response into the dotted schema.
func responseAttributes(resp openai.ChatCompletionResponse) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, 2*len(resp.Choices)+5)

	for i, choice := range resp.Choices {
		prefix := fmt.Sprintf("llm.output_messages.%d.message.", i)
		kvs = append(kvs,
			attribute.String(prefix+"role", choice.Message.Role),
			attribute.String(prefix+"content", choice.Message.Content),
		)
	}

	kvs = append(kvs,
		attribute.Int("llm.token_count.prompt", resp.Usage.PromptTokens),
		attribute.Int("llm.token_count.completion", resp.Usage.CompletionTokens),
		attribute.Int("llm.token_count.total", resp.Usage.TotalTokens),
		attribute.String("output.value", marshalString(resp)),
		attribute.String("output.mime_type", mimeJSON),
	)
	return kvs
}

// invocationParameters serializes the sampling knobs the call was made with.
func invocationParameters(req openai.ChatCompletionRequest) string {
	params := map[string]any{"model": req.Model}
	if req.Temperature != 0 {
		params["temperature"] = req.Temperature
	}
	if req.MaxTokens != 0 {
		params["max_tokens"] = req.MaxTokens
	}
	if req.MaxCompletionTokens != 0 {
		params["max_completion_tokens"] = req.MaxCompletionTokens
	}
	if req.TopP != 0 {
		params["top_p"] = req.TopP
	}
	if len(req.Stop) > 0 {
		params["stop"] = req.Stop
	}
	return marshalString(params)
}

func marshalString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
