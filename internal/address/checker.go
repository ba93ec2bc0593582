// Package address asks a language model whether an order text names a complete delivery address.
package address

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

type Checker interface {
	Check(ctx context.Context, text string) Fields
}

type NopChecker struct{}

func (NopChecker) Check(context.Context, string) Fields {
	return nil
}

type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type LLMChecker struct {
	client  completer
	model   string
	limiter *rate.Limiter
}

type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	RPS        float64
	Burst      int
	HTTPClient *http.Client
}

func NewLLMChecker(opts Options) *LLMChecker {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	return newLLMChecker(openai.NewClientWithConfig(cfg), opts.Model, opts.RPS, opts.Burst)
}

func newLLMChecker(client completer, model string, rps float64, burst int) *LLMChecker {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst < 1 {
		burst = 1
	}
	return &LLMChecker{
		client:  client,
		model:   model,
		limiter: rate.NewLimiter(limit, burst),
	}
}

const systemPrompt = `Ты проверяешь заявки на доставку цветов и подарков.
Определи, каких частей адреса получателя не хватает в тексте заявки.
Верни только JSON без markdown и пояснений, строго по схеме:
{"street": bool, "house": bool, "entrance": bool, "floor": bool, "apartment": bool, "comment": string}
Значение true означает, что эта часть адреса ОТСУТСТВУЕТ.
Если получатель живёт в частном доме, подъезд, этаж и квартира не требуются.
В comment кратко поясни решение.`

type verdict struct {
	Street    bool   `json:"street"`
	House     bool   `json:"house"`
	Entrance  bool   `json:"entrance"`
	Floor     bool   `json:"floor"`
	Apartment bool   `json:"apartment"`
	Comment   string `json:"comment"`
}

// Check returns the missing fields. Any failure is logged and reported as nothing missing
// so that an order is never held back by the model.
func (c *LLMChecker) Check(ctx context.Context, text string) Fields {
	fields, err := c.check(ctx, text)
	if err != nil {
		slog.Warn("Address check failed, assuming address is complete", "error", err)
		return nil
	}
	return fields
}

func (c *LLMChecker) check(ctx context.Context, text string) (Fields, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("completion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("completion returned no choices")
	}

	v, err := parseVerdict(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	slog.Debug("Address check verdict", "verdict", v)
	return v.missing(), nil
}

func parseVerdict(raw string) (verdict, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return verdict{}, errors.New("empty completion content")
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	var v verdict
	if err := dec.Decode(&v); err != nil {
		return verdict{}, fmt.Errorf("decode verdict: %w", err)
	}
	return v, nil
}

func (v verdict) missing() Fields {
	var out Fields
	if v.Street {
		out = append(out, FieldStreet)
	}
	if v.House {
		out = append(out, FieldHouse)
	}
	if v.Entrance {
		out = append(out, FieldEntrance)
	}
	if v.Floor {
		out = append(out, FieldFloor)
	}
	if v.Apartment {
		out = append(out, FieldApartment)
	}
	return out
}
