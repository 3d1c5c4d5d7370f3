package models

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/lalomorales22/ditto/app/tools"
	"github.com/lalomorales22/ditto/app/utils/restclient"
)

const endpoint = "/v1/chat/completions"

var _ Interface = &LLMClient{}

type LLMClient struct {
	restClient  restclient.Interface
	model       string
	temperature float64
	maxTokens   int
	toolCalling bool
}

type Options struct {
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float64
	MaxTokens   int
	ToolCalling bool
}

func NewLLMClient(opts Options) *LLMClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("LLM_BASE_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:1234"
	}
	var headers map[string]string
	if key := firstNonEmpty(opts.APIKey, os.Getenv("LLM_API_KEY")); key != "" {
		headers = map[string]string{"Authorization": "Bearer " + key}
	}
	return &LLMClient{
		restClient:  restclient.NewRestClient(baseURL, headers),
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		toolCalling: opts.ToolCalling,
	}
}

func (mc *LLMClient) SupportsToolCalling() bool {
	return mc.toolCalling
}

func (mc *LLMClient) Complete(ctx context.Context, messages []Message, toolkit map[string]tools.Tool) (*Message, error) {
	payload := requestPayload{
		Model:       mc.model,
		Messages:    messages,
		Temperature: mc.temperature,
		MaxTokens:   mc.maxTokens,
		Tools:       functionsToPayload(toolkit),
	}
	if len(payload.Tools) > 0 {
		payload.ToolChoice = "auto"
	}

	response, err := mc.sendRequestAndParse(ctx, payload, 3)
	if err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, nil
	}
	message := response.Choices[0].Message
	return &message, nil
}

func (mc *LLMClient) Think(ctx context.Context, messages []Message) (string, error) {
	message, err := mc.Complete(ctx, messages, nil)
	if err != nil {
		return "", err
	}
	if message == nil {
		return "", nil
	}
	return message.Content, nil
}

func functionsToPayload(functions map[string]tools.Tool) (payload []functionPayload) {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		payload = append(payload, functionPayload{Type: "function", Function: functions[name]})
	}
	return payload
}

func (mc *LLMClient) sendRequestAndParse(ctx context.Context, payload requestPayload, maxRetries int) (*ResponseLLM, error) {
	var err error
	var response []byte
	var status int
	var generatedResponse ResponseLLM

	for i := 0; i < maxRetries; i++ {
		select {
		case <-ctx.Done():
			log.Println("🚨 Request canceled before execution")
			return nil, ctx.Err()
		default:
			if err != nil {
				time.Sleep(time.Duration(math.Pow(2, float64(i))) * 100 * time.Millisecond)
			}
			response, status, err = mc.restClient.Post(ctx, endpoint, payload, nil)
			if err != nil {
				log.Printf("⚠️ Attempt %d failed: HTTP %d | Error: %v", i, status, err)
				continue
			}
			if status != http.StatusOK {
				err = fmt.Errorf("unexpected status %d: %s", status, string(response))
				log.Printf("⚠️ Attempt %d failed: %v", i, err)
				continue
			}

			if err = json.Unmarshal(response, &generatedResponse); err != nil {
				log.Printf("⚠️ Error parsing response: %v", err)
				continue
			}

			return &generatedResponse, nil
		}
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
