// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package instrument

import (
	"encoding/json"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func attrMap(kvs []attribute.KeyValue) map[string]string {
	m := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value.Emit()
	}
	return m
}

func TestRequestAttributes(t *testing.T) {
	req := openai.ChatCompletionRequest{
		Model:       openai.GPT4oMini,
		Temperature: 0.2,
		MaxTokens:   64,
		Messages: []openai.ChatCompletionMessage{
			{Role: "system", Content: "be brief"},
			{Role: "user", Content: "hi"},
		},
		Tools: []openai.Tool{
			{
				Type: openai.ToolTypeFunction,
				Function: &openai.FunctionDefinition{
					Name:        "lookup",
					Description: "looks things up",
				},
			},
		},
	}

	m := attrMap(requestAttributes(req))

	assert.Equal(t, "LLM", m["fi.span.kind"])
	assert.Equal(t, openai.GPT4oMini, m["llm.model_name"])
	assert.Equal(t, "system", m["llm.input_messages.0.message.role"])
	assert.Equal(t, "be brief", m["llm.input_messages.0.message.content"])
	assert.Equal(t, "user", m["llm.input_messages.1.message.role"])
	assert.Equal(t, "hi", m["llm.input_messages.1.message.content"])
	assert.Equal(t, mimeJSON, m["input.mime_type"])

	var params map[string]any
	require.NoError(t, json.Unmarshal([]byte(m["llm.invocation_parameters"]), &params))
	assert.Equal(t, openai.GPT4oMini, params["model"])
	assert.InDelta(t, 0.2, params["temperature"], 1e-6)
	assert.EqualValues(t, 64, params["max_tokens"])
	assert.NotContains(t, params, "top_p")

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(m["llm.tools.0.tool.json_schema"]), &schema))
	assert.Equal(t, "lookup", schema["name"])

	var echoed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(m["input.value"]), &echoed))
	require.Len(t, echoed, 2)
	assert.Equal(t, "hi", echoed[1]["content"])
}

func TestRequestAttributes_SkipsToolWithoutFunction(t *testing.T) {
	req := openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Tools: []openai.Tool{{Type: openai.ToolTypeFunction}},
	}

	m := attrMap(requestAttributes(req))
	assert.NotContains(t, m, "llm.tools.0.tool.json_schema")
}

func TestResponseAttributes(t *testing.T) {
	resp := openai.ChatCompletionResponse{
		ID: "resp_123",
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "hi there"}},
		},
		Usage: openai.Usage{PromptTokens: 5, CompletionTokens: 7, TotalTokens: 12},
	}

	m := attrMap(responseAttributes(resp))

	assert.Equal(t, "assistant", m["llm.output_messages.0.message.role"])
	assert.Equal(t, "hi there", m["llm.output_messages.0.message.content"])
	assert.Equal(t, "5", m["llm.token_count.prompt"])
	assert.Equal(t, "7", m["llm.token_count.completion"])
	assert.Equal(t, "12", m["llm.token_count.total"])
	assert.Equal(t, mimeJSON, m["output.mime_type"])

	// output.value carries the whole response; the flattener digs resp_id
	// out of it downstream.
	var echoed map[string]any
	require.NoError(t, json.Unmarshal([]byte(m["output.value"]), &echoed))
	assert.Equal(t, "resp_123", echoed["id"])
}
