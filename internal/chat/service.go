package chat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/z1shivam/blocklift/internal/config"
	"github.com/z1shivam/blocklift/internal/logger"
	"github.com/z1shivam/blocklift/internal/price"
)

const defaultTimeout = 60 * time.Second

// Message is one prior turn of the conversation.
type Message struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// priceSource supplies current market prices for the system instruction.
type priceSource interface {
	Simple(ctx context.Context) ([]price.SimplePrice, error)
}

// Service proxies chat requests to a Gemini-style generative API and
// streams the answer back token by token.
type Service struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	prices  priceSource
}

// NewService creates the chat proxy. prices may be nil, in which case the
// assistant answers without live market data.
func NewService(cfg config.AIConfig, prices priceSource) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ai api key is required")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &Service{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: defaultTimeout},
		prices:  prices,
	}, nil
}

type generateRequest struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateChunk struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Stream sends the conversation to the model and invokes emit for every
// token chunk as it arrives. Returning an error from emit aborts the stream.
func (s *Service) Stream(ctx context.Context, history []Message, userInput string, emit func(token string) error) error {
	payload := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: s.systemInstruction(ctx)}}},
		Contents:          s.buildContents(history, userInput),
		GenerationConfig: &generationConfig{
			Temperature:     0.9,
			MaxOutputTokens: 300,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode chat request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chat API returned status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}

		var chunk generateChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			logger.Warn("Skipping malformed chat chunk: %v", err)
			continue
		}
		for _, candidate := range chunk.Candidates {
			for _, p := range candidate.Content.Parts {
				if p.Text == "" {
					continue
				}
				if err := emit(p.Text); err != nil {
					return err
				}
			}
		}
	}
	return scanner.Err()
}

func (s *Service) buildContents(history []Message, userInput string) []content {
	contents := make([]content, 0, len(history)+1)
	for _, msg := range history {
		role := msg.Role
		if role != "model" {
			role = "user"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: msg.Text}}})
	}
	return append(contents, content{Role: "user", Parts: []part{{Text: userInput}}})
}

// systemInstruction builds the assistant persona, embedding the top cached
// market prices when available.
func (s *Service) systemInstruction(ctx context.Context) string {
	var b strings.Builder
	b.WriteString("Limit your response to 150 tokens. Do not explain in detail until asked. ")
	b.WriteString("You are the AI assistant of BlockLift, a decentralized crowdfunding platform. ")
	b.WriteString("People with ideas can raise funds here; NGOs, startups and other organizations use it too. ")
	b.WriteString("Be concise, playful and a little sarcastic, and use emojis freely. ")

	if s.prices != nil {
		prices, err := s.prices.Simple(ctx)
		if err != nil {
			logger.Warn("Chat prompt built without prices: %v", err)
		} else {
			if len(prices) > 10 {
				prices = prices[:10]
			}
			if data, err := json.Marshal(prices); err == nil {
				b.WriteString("When asked for a price, answer from this current INR price list: ")
				b.Write(data)
			}
		}
	}
	return b.String()
}
