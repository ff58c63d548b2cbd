package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"paperag/internal/util"
)

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry("")
	for _, name := range []string{ProviderLocal, ProviderOpenAI, ProviderGoogle, ProviderAnthropic} {
		if _, err := r.Generator(name); err != nil {
			t.Errorf("Generator(%q): %v", name, err)
		}
	}
}

func TestRegistryDispatchIsCaseInsensitive(t *testing.T) {
	r := NewRegistry("")
	for _, name := range []string{"Local", "OpenAI", "Google", "Anthropic", "LOCAL"} {
		if _, err := r.Generator(name); err != nil {
			t.Errorf("Generator(%q): %v", name, err)
		}
	}
}

func TestRegistryUnknownProvider(t *testing.T) {
	r := NewRegistry("")
	_, err := r.Generator("mistral")
	if !errors.Is(err, util.ErrUnsupportedProvider) {
		t.Fatalf("err = %v, want ErrUnsupportedProvider", err)
	}
}

func TestCloudProvidersRequireAPIKey(t *testing.T) {
	ctx := context.Background()
	cloud := map[string]Generator{
		"openai":    NewOpenAIProvider(""),
		"google":    NewGoogleProvider(""),
		"anthropic": NewAnthropicProvider(""),
	}
	for name, p := range cloud {
		if _, err := p.Generate(ctx, "some-model", "", "hi"); !errors.Is(err, util.ErrAPIKeyRequired) {
			t.Errorf("%s Generate without key: err = %v, want ErrAPIKeyRequired", name, err)
		}
		if _, err := p.ListModels(ctx, ""); !errors.Is(err, util.ErrAPIKeyRequired) {
			t.Errorf("%s ListModels without key: err = %v, want ErrAPIKeyRequired", name, err)
		}
	}
}

func TestOllamaGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"response": "hello from ollama"}`)
	}))
	defer srv.Close()

	got, err := NewOllamaProvider(srv.URL).Generate(context.Background(), "llama3", "", "hi")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "hello from ollama" {
		t.Errorf("response = %q", got)
	}
}

func TestOllamaListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"models": [{"name": "llama3:8b"}, {"name": "nomic-embed-text"}]}`)
	}))
	defer srv.Close()

	got, err := NewOllamaProvider(srv.URL).ListModels(context.Background(), "")
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	want := []string{"llama3:8b", "nomic-embed-text"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("models = %v, want %v", got, want)
	}
}

func TestOllamaEmbedBatch(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"embeddings": [[0.1, 0.2], [0.3, 0.4], [0.5, 0.6]]}`)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "nomic-embed-text", 2)
	vecs, err := e.Embed(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if calls != 1 {
		t.Errorf("embed made %d requests, want 1", calls)
	}
	if len(vecs) != 3 || vecs[1][0] != 0.3 {
		t.Errorf("vectors = %v", vecs)
	}
}

func TestOllamaEmbedCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"embeddings": [[0.1]]}`)
	}))
	defer srv.Close()

	if _, err := NewOllamaEmbedder(srv.URL, "m", 1).Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("expected error on vector count mismatch")
	}
}

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization = %q", got)
		}
		fmt.Fprint(w, `{"choices": [{"message": {"content": "the answer"}}]}`)
	}))
	defer srv.Close()

	got, err := NewOpenAIProvider(srv.URL).Generate(context.Background(), "gpt-4o", "sk-test", "q")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "the answer" {
		t.Errorf("response = %q", got)
	}
}

func TestAnthropicGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "sk-ant" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Error("missing anthropic-version header")
		}
		fmt.Fprint(w, `{"content": [{"text": "claude says hi"}]}`)
	}))
	defer srv.Close()

	got, err := NewAnthropicProvider(srv.URL).Generate(context.Background(), "claude-sonnet-4-0", "sk-ant", "q")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "claude says hi" {
		t.Errorf("response = %q", got)
	}
}

func TestGoogleGenerateAndList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "g-key" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		if r.Method == http.MethodPost {
			fmt.Fprint(w, `{"candidates": [{"content": {"parts": [{"text": "gemini reply"}]}}]}`)
			return
		}
		fmt.Fprint(w, `{"models": [{"name": "models/gemini-2.0-flash"}]}`)
	}))
	defer srv.Close()

	p := NewGoogleProvider(srv.URL)
	got, err := p.Generate(context.Background(), "gemini-2.0-flash", "g-key", "q")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "gemini reply" {
		t.Errorf("response = %q", got)
	}
	models, err := p.ListModels(context.Background(), "g-key")
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(models) != 1 || models[0] != "gemini-2.0-flash" {
		t.Errorf("models = %v, want prefix stripped", models)
	}
}

func TestMockEmbedderDeterministic(t *testing.T) {
	e := NewMockEmbedder(8)
	a, err := e.Embed(context.Background(), []string{"same text", "other text"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, _ := e.Embed(context.Background(), []string{"same text"})
	if !reflect.DeepEqual(a[0], b[0]) {
		t.Error("same text produced different vectors")
	}
	if reflect.DeepEqual(a[0], a[1]) {
		t.Error("different texts produced identical vectors")
	}
	if len(a[0]) != 8 {
		t.Errorf("dimension = %d, want 8", len(a[0]))
	}
}

func TestNewEmbedderUnknownProvider(t *testing.T) {
	if _, err := NewEmbedder("word2vec", "m", "", "", 4); !errors.Is(err, util.ErrUnsupportedProvider) {
		t.Fatalf("err = %v, want ErrUnsupportedProvider", err)
	}
}
