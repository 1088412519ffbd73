package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-ats/internal/types"
)

type fakeClient struct {
	answer string
	err    error
	system string
	prompt string
}

func (f *fakeClient) GenerateContent(_ context.Context, system, prompt string) (string, error) {
	f.system, f.prompt = system, prompt
	return f.answer, f.err
}

func (f *fakeClient) Model() string { return "fake-model" }
func (f *fakeClient) Close() error  { return nil }

func TestCountryName(t *testing.T) {
	assert.Equal(t, "México", CountryName("MX"))
	assert.Equal(t, "Colombia", CountryName("co"))
	assert.Equal(t, "Estados Unidos (hispano)", CountryName("US"))
	assert.Equal(t, "México", CountryName("AR"))
}

func TestImprove(t *testing.T) {
	client := &fakeClient{answer: "```markdown\n# Ana Pérez\n## Resumen profesional\nTexto\n```"}
	g := New(client)

	req := &types.ImproveRequest{CVText: "Ana Pérez, contadora", TargetRole: "Analista contable", Country: "CO", Email: "ana@example.com"}
	md, err := g.Improve(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "# Ana Pérez\n## Resumen profesional\nTexto", md)
	assert.Contains(t, client.system, "mercado laboral de Colombia")
	assert.Contains(t, client.prompt, "Puesto objetivo: Analista contable")
	assert.Contains(t, client.prompt, "Ana Pérez, contadora")
	assert.Contains(t, client.prompt, "Email del candidato: ana@example.com")
	assert.Contains(t, client.prompt, "cédula")
	assert.NotContains(t, client.prompt, "{{.")
}

func TestImprove_NoContactHints(t *testing.T) {
	client := &fakeClient{answer: "# Ana"}
	_, err := New(client).Improve(context.Background(), &types.ImproveRequest{CVText: "cv", TargetRole: "x", Country: "MX"})
	require.NoError(t, err)
	assert.NotContains(t, client.prompt, "Email del candidato")
	assert.Contains(t, client.prompt, "español neutro (México)")
}

func TestCreate(t *testing.T) {
	client := &fakeClient{answer: "# Ana Pérez"}
	req := &types.CreateRequest{
		TargetRole: "Contador",
		Country:    "US",
		Profile:    types.Profile{FullName: "Ana Pérez"},
		USWork:     &types.USWork{WorkAuthorization: "Si"},
	}

	md, err := New(client).Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "# Ana Pérez", md)
	assert.Contains(t, client.system, "Estados Unidos (hispano)")
	assert.Contains(t, client.prompt, "DATOS DEL CANDIDATO:\nNombre: Ana Pérez")
	assert.Contains(t, client.prompt, "Autorización: Si")
	assert.Contains(t, client.prompt, "No menciones foto")
}

func TestGenerate_Errors(t *testing.T) {
	boom := errors.New("quota exceeded")
	_, err := New(&fakeClient{err: boom}).Improve(context.Background(), &types.ImproveRequest{CVText: "cv", TargetRole: "x"})
	assert.ErrorIs(t, err, boom)

	_, err = New(&fakeClient{answer: "```\n```"}).Improve(context.Background(), &types.ImproveRequest{CVText: "cv", TargetRole: "x"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
