package usecase

import (
	"testing"

	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullLine(t *testing.T) {
	svc := NewParseService(nil)
	text := "Processador Ryzen 5 5600\tR$ 899,00\thttps://cdn.example.com/img1.jpg\thttps://loja.example.com/produto/123"

	records := svc.Parse(text, domain.ImportConfiguration{AutoDetectCategory: true})
	require.Len(t, records, 1)

	rec := records[0]
	assert.True(t, rec.IsValid)
	assert.Equal(t, "Processador Ryzen 5 5600", rec.Name)
	assert.True(t, rec.Price.Equal(decimal.RequireFromString("899.00")))
	assert.Equal(t, "https://cdn.example.com/img1.jpg", rec.Image)
	assert.Equal(t, "https://loja.example.com/produto/123", rec.SourceURL)
	assert.Equal(t, "processadores", rec.Category)
	assert.Equal(t, 1, rec.LineNumber)
}

func TestParseRecordWithoutPrice(t *testing.T) {
	svc := NewParseService(nil)

	records := svc.Parse("Produto sem preço válido\tabc", domain.ImportConfiguration{})
	require.Len(t, records, 1)
	assert.False(t, records[0].IsValid)
	assert.Equal(t, "no price detected", records[0].ValidationError)
}

func TestParseMixedInput(t *testing.T) {
	svc := NewParseService(nil)
	text := `Nome	Preço	Imagem	Link
Monitor Gamer LG 24 IPS	R$ 799,90	https://img.example.com/mon.jpg	https://loja.example.com/produto/1
SSD	R$ 199,00
Placa de Vídeo RTX 4060;2.399,99
Mouse Gamer | 0,00

Teclado Mecânico Redragon | 1,234.56`

	cfg := domain.ImportConfiguration{
		AutoDetectCategory: true,
		DefaultTags:        domain.ParseTagList("importado, hardware"),
		RibbonLabel:        "Novo",
	}
	records := svc.Parse(text, cfg)
	require.Len(t, records, 5)

	assert.True(t, records[0].IsValid)
	assert.Equal(t, "monitores", records[0].Category)
	assert.Equal(t, "24", records[0].Attributes[AttrScreenSize])
	assert.Equal(t, []string{"importado", "hardware", "badge:Novo"}, records[0].Tags)

	assert.False(t, records[1].IsValid)
	assert.Equal(t, domain.ReasonNameTooShort, records[1].ValidationError)

	assert.True(t, records[2].IsValid)
	assert.Equal(t, "placas-de-video", records[2].Category)
	assert.True(t, records[2].Price.Equal(decimal.RequireFromString("2399.99")))

	assert.False(t, records[3].IsValid)
	assert.Equal(t, domain.ReasonZeroPrice, records[3].ValidationError)

	assert.True(t, records[4].IsValid)
	assert.Equal(t, 7, records[4].LineNumber)
	assert.Equal(t, "perifericos", records[4].Category)
	assert.True(t, records[4].Price.Equal(decimal.RequireFromString("1234.56")))
}

func TestParseRows(t *testing.T) {
	svc := NewParseService(nil)
	rows := [][]string{
		{"Produto", "Preço"},
		{"Fonte Corsair 650W\n80 Plus", "R$ 459,90"},
		{},
		{"Gabinete Gamer", "R$ 299,00"},
	}

	records := svc.ParseRows(rows, domain.ImportConfiguration{DefaultCategory: "hardware"})
	require.Len(t, records, 2)
	assert.Equal(t, "Fonte Corsair 650W 80 Plus", records[0].Name)
	assert.Equal(t, 2, records[0].LineNumber)
	assert.Equal(t, "hardware", records[0].Category)
	assert.Equal(t, 4, records[1].LineNumber)
}

func TestParseEmptyInput(t *testing.T) {
	svc := NewParseService(nil)
	assert.Empty(t, svc.Parse("   \n\n", domain.ImportConfiguration{}))
}
