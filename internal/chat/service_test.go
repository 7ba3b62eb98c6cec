package chat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z1shivam/blocklift/internal/config"
	"github.com/z1shivam/blocklift/internal/price"
)

type fakePrices struct {
	prices []price.SimplePrice
	err    error
}

func (f *fakePrices) Simple(ctx context.Context) ([]price.SimplePrice, error) {
	return f.prices, f.err
}

func sseChunk(texts ...string) string {
	var b strings.Builder
	for _, text := range texts {
		b.WriteString(`data: {"candidates":[{"content":{"role":"model","parts":[{"text":"` + text + `"}]}}]}`)
		b.WriteString("\n\n")
	}
	return b.String()
}

func newTestChat(t *testing.T, baseURL string, prices priceSource) *Service {
	t.Helper()
	svc, err := NewService(config.AIConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "gemini-2.0-flash",
	}, prices)
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresKey(t *testing.T) {
	_, err := NewService(config.AIConfig{}, nil)
	assert.Error(t, err)
}

func TestStreamEmitsTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.0-flash:streamGenerateContent", r.URL.Path)
		assert.Equal(t, "sse", r.URL.Query().Get("alt"))
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(sseChunk("Hello", " there", "!")))
	}))
	defer server.Close()

	svc := newTestChat(t, server.URL, nil)

	var tokens []string
	err := svc.Stream(context.Background(), nil, "hi", func(token string) error {
		tokens = append(tokens, token)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello", " there", "!"}, tokens)
}

func TestStreamAbortsWhenEmitFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sseChunk("one", "two", "three")))
	}))
	defer server.Close()

	svc := newTestChat(t, server.URL, nil)

	var tokens []string
	err := svc.Stream(context.Background(), nil, "hi", func(token string) error {
		tokens = append(tokens, token)
		return errors.New("client went away")
	})
	require.Error(t, err)
	assert.Equal(t, []string{"one"}, tokens)
}

func TestStreamSkipsMalformedChunks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data: not json\n\n" + sseChunk("ok") + "data: [DONE]\n\n"))
	}))
	defer server.Close()

	svc := newTestChat(t, server.URL, nil)

	var tokens []string
	err := svc.Stream(context.Background(), nil, "hi", func(token string) error {
		tokens = append(tokens, token)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, tokens)
}

func TestStreamSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	svc := newTestChat(t, server.URL, nil)

	err := svc.Stream(context.Background(), nil, "hi", func(string) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestBuildContentsNormalizesRoles(t *testing.T) {
	svc := newTestChat(t, "http://unused", nil)

	contents := svc.buildContents([]Message{
		{Role: "user", Text: "hi"},
		{Role: "model", Text: "hello"},
		{Role: "assistant", Text: "mislabeled"},
	}, "newest")

	require.Len(t, contents, 4)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "user", contents[2].Role, "unknown roles collapse to user")
	assert.Equal(t, "newest", contents[3].Parts[0].Text)
}

func TestSystemInstructionEmbedsPrices(t *testing.T) {
	prices := make([]price.SimplePrice, 0, 12)
	for i := 0; i < 12; i++ {
		prices = append(prices, price.SimplePrice{Name: "Coin", Symbol: "c", CurrentPrice: float64(i)})
	}
	svc := newTestChat(t, "http://unused", &fakePrices{prices: prices})

	prompt := svc.systemInstruction(context.Background())
	assert.Contains(t, prompt, "BlockLift")
	assert.Contains(t, prompt, "INR price list")
	assert.Equal(t, 10, strings.Count(prompt, `"current_price"`), "prompt embeds at most the top 10 prices")
}

func TestSystemInstructionWithoutPrices(t *testing.T) {
	svc := newTestChat(t, "http://unused", &fakePrices{err: errors.New("cache miss")})

	prompt := svc.systemInstruction(context.Background())
	assert.Contains(t, prompt, "BlockLift")
	assert.NotContains(t, prompt, "price list")
}
