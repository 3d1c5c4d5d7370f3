package models

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalomorales22/ditto/app/tools"
)

func newTestClient(url string) *LLMClient {
	return NewLLMClient(Options{
		Model:       "test-model",
		BaseURL:     url,
		Temperature: 0.2,
		ToolCalling: true,
	})
}

func completionBody(message Message) string {
	response := ResponseLLM{Model: "test-model"}
	response.Choices = append(response.Choices, struct {
		Index        int     `json:"index"`
		FinishReason string  `json:"finish_reason"`
		Message      Message `json:"message"`
	}{Message: message})
	data, _ := json.Marshal(response)
	return string(data)
}

func TestCompleteParsesToolCalls(t *testing.T) {
	var captured requestPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(completionBody(Message{
			Role:    "assistant",
			Content: "creating files",
			ToolCalls: []ToolCall{{
				ID:       "call_1",
				Type:     "function",
				Function: ToolFunction{Name: tools.CreateFile, Arguments: `{"path":"app.py","content":"x"}`},
			}},
		})))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	message, err := client.Complete(context.Background(), SeedMessages("build it", "/tmp/p", "{}"), tools.BuilderToolkit())
	require.NoError(t, err)
	require.NotNil(t, message)

	assert.Equal(t, "creating files", message.Content)
	require.Len(t, message.ToolCalls, 1)
	assert.Equal(t, tools.CreateFile, message.ToolCalls[0].Function.Name)

	assert.Equal(t, "test-model", captured.Model)
	assert.Equal(t, "auto", captured.ToolChoice)
	assert.Len(t, captured.Tools, len(tools.BuilderToolkit()))
	require.Len(t, captured.Messages, 3)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "build it", captured.Messages[1].Content)
}

func TestCompleteEmptyChoicesIsRetryableAbsence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	message, err := newTestClient(server.URL).Complete(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, message)
}

func TestCompleteRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(completionBody(Message{Role: "assistant", Content: "recovered"})))
	}))
	defer server.Close()

	message, err := newTestClient(server.URL).Complete(context.Background(), nil, nil)
	require.NoError(t, err)
	require.NotNil(t, message)
	assert.Equal(t, "recovered", message.Content)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestCompleteFailsAfterRetries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestThinkOmitsToolSchema(t *testing.T) {
	var captured requestPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(completionBody(Message{Role: "assistant", Content: "a reflection"})))
	}))
	defer server.Close()

	content, err := newTestClient(server.URL).Think(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "a reflection", content)
	assert.Empty(t, captured.Tools)
	assert.Empty(t, captured.ToolChoice)
}

func TestCompleteCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient("http://localhost:1").Complete(ctx, nil, nil)
	require.Error(t, err)
}
