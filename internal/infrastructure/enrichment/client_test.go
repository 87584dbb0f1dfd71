package enrichment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productPage = `<!doctype html>
<html><head>
<title>Processador AMD Ryzen 5 5600</title>
<meta property="og:description" content="Processador AMD Ryzen 5 5600 com 6 núcleos, 12 threads e clock de até 4.4GHz.">
</head><body><p>Compre agora</p></body></html>`

func newTestClient() *PageClient {
	return NewPageClient(PageClientConfig{Timeout: 2 * time.Second, RequestsPerSecond: 100, Burst: 10})
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
	}
}

func TestPageClient_Enrich(t *testing.T) {
	t.Run("reads og description", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(productPage))
		}))
		defer server.Close()

		result, err := newTestClient().Enrich(context.Background(), domain.EnrichmentRequest{URL: server.URL + "/produto/ryzen"})
		require.NoError(t, err)
		assert.Equal(t, SourceMeta, result.Source)
		assert.Contains(t, result.Description, "6 núcleos")
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(productPage))
		}))
		defer server.Close()

		result, err := newTestClient().Enrich(context.Background(), domain.EnrichmentRequest{URL: server.URL})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Description)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("does not retry not found", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := newTestClient().Enrich(context.Background(), domain.EnrichmentRequest{URL: server.URL})
		assert.True(t, errors.Is(err, domain.ErrEnrichmentFailed), "got %v", err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("page without description", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html><head><title>x</title></head><body></body></html>`))
		}))
		defer server.Close()

		_, err := newTestClient().Enrich(context.Background(), domain.EnrichmentRequest{URL: server.URL})
		assert.True(t, errors.Is(err, domain.ErrNoDescription), "got %v", err)
	})

	t.Run("rejects non http urls", func(t *testing.T) {
		_, err := newTestClient().Enrich(context.Background(), domain.EnrichmentRequest{URL: "ftp://loja.com/p"})
		assert.True(t, errors.Is(err, domain.ErrEnrichmentFailed))
	})

	t.Run("honours context deadline", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			w.Write([]byte(productPage))
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := newTestClient().Enrich(ctx, domain.EnrichmentRequest{URL: server.URL})
		assert.Error(t, err)
		assert.Less(t, time.Since(start), 250*time.Millisecond)
	})
}

func TestExtractDescription(t *testing.T) {
	t.Run("meta preference order", func(t *testing.T) {
		page := `<html><head>
			<meta name="description" content="Descrição genérica da página de produto da loja">
			<meta property="og:description" content="Descrição Open Graph do produto com detalhes">
		</head><body></body></html>`

		result, err := ExtractDescription([]byte(page), nil)
		require.NoError(t, err)
		assert.Equal(t, "Descrição Open Graph do produto com detalhes", result.Description)
	})

	t.Run("short meta falls through to article text", func(t *testing.T) {
		paragraph := strings.Repeat("Monitor gamer com painel IPS, taxa de atualização de 144Hz e tempo de resposta de 1ms. ", 8)
		page := `<html><head><meta name="description" content="Monitor"></head><body>
			<article><h1>Monitor LG UltraGear</h1><p>` + paragraph + `</p><p>` + paragraph + `</p></article>
		</body></html>`

		result, err := ExtractDescription([]byte(page), nil)
		require.NoError(t, err)
		assert.Equal(t, SourceReadability, result.Source)
		assert.Contains(t, result.Description, "144Hz")
		assert.LessOrEqual(t, len([]rune(result.Description)), MaxDescriptionRunes)
	})

	t.Run("empty page", func(t *testing.T) {
		_, err := ExtractDescription([]byte("   "), nil)
		assert.ErrorIs(t, err, domain.ErrNoDescription)
	})
}

func TestTruncateRunes(t *testing.T) {
	s := strings.Repeat("palavra ", 200)
	got := truncateRunes(s, 100)

	assert.LessOrEqual(t, len([]rune(got)), 100)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, "curto", truncateRunes("curto", 100))
}
