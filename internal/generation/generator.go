// Package generation writes résumé markdown with the LLM, either by
// improving an existing résumé or by creating one from structured input.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/cv-ats/internal/llm"
	"github.com/jonathan/cv-ats/internal/prompts"
	"github.com/jonathan/cv-ats/internal/types"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("model returned an empty résumé")

var countryNames = map[string]string{
	types.CountryMX: "México",
	types.CountryCO: "Colombia",
	types.CountryUS: "Estados Unidos (hispano)",
}

// CountryName returns the Spanish market name for a country code. Unknown
// codes fall back to México.
func CountryName(code string) string {
	if name, ok := countryNames[strings.ToUpper(code)]; ok {
		return name
	}
	return countryNames[types.DefaultCountry]
}

func countryRules(code string) (string, error) {
	if _, ok := countryNames[code]; !ok {
		code = types.DefaultCountry
	}
	return prompts.Get(prompts.CVFile, "country-rules-"+code)
}

// Generator produces résumé markdown.
type Generator struct {
	client llm.Client
}

// New creates a Generator on top of client.
func New(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Improve rewrites req.CVText for req.TargetRole. req must be normalized
// and valid.
func (g *Generator) Improve(ctx context.Context, req *types.ImproveRequest) (string, error) {
	rules, err := countryRules(req.Country)
	if err != nil {
		return "", err
	}
	data := map[string]string{
		"CountryName":  CountryName(req.Country),
		"TargetRole":   req.TargetRole,
		"CVText":       req.CVText,
		"CountryRules": rules,
		"ContactHints": contactHints(req),
	}
	return g.generate(ctx, "improve", data)
}

// Create writes a résumé from structured input. req must be normalized and
// valid.
func (g *Generator) Create(ctx context.Context, req *types.CreateRequest) (string, error) {
	rules, err := countryRules(req.Country)
	if err != nil {
		return "", err
	}
	data := map[string]string{
		"CountryName":    CountryName(req.Country),
		"TargetRole":     req.TargetRole,
		"CountryRules":   rules,
		"CandidateBlock": CandidateBlock(req),
	}
	return g.generate(ctx, "create", data)
}

func (g *Generator) generate(ctx context.Context, kind string, data map[string]string) (string, error) {
	system, err := prompts.Render(prompts.CVFile, kind+"-system", data)
	if err != nil {
		return "", err
	}
	user, err := prompts.Render(prompts.CVFile, kind+"-user", data)
	if err != nil {
		return "", err
	}

	out, err := g.client.GenerateContent(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", kind, err)
	}

	md := llm.CleanCodeFence(out)
	if md == "" {
		return "", ErrEmptyResponse
	}
	log.Printf("[generation] %s done with %s (%d chars)", kind, g.client.Model(), len(md))
	return md, nil
}

// contactHints tells the model which contact details the candidate supplied
// outside the résumé text.
func contactHints(req *types.ImproveRequest) string {
	var lines []string
	if req.Email != "" {
		lines = append(lines, "Email del candidato: "+req.Email)
	}
	if req.LinkedIn != "" {
		lines = append(lines, "LinkedIn del candidato: "+req.LinkedIn)
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
