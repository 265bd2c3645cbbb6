// Package suggest produces daily recipe ideas from the current inventory,
// favoring items that are about to expire.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/nickagee13/pantry-path/internal/models"
)

// Suggester asks a language model for meal ideas. It is an optional
// collaborator: the engine never depends on it.
type Suggester struct {
	model llms.LLM
}

// New creates a suggester over an existing model.
func New(model llms.LLM) *Suggester {
	return &Suggester{model: model}
}

// NewOpenAI creates a suggester backed by the OpenAI API.
func NewOpenAI(apiKey string) (*Suggester, error) {
	model, err := openai.New(
		openai.WithModel("gpt-4-turbo-preview"),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize OpenAI client: %w", err)
	}
	return &Suggester{model: model}, nil
}

// Suggest returns up to a handful of recipe titles built around what is in
// the inventory, expiring items first.
func (s *Suggester) Suggest(ctx context.Context, inventory []models.InventoryItem) ([]string, error) {
	if len(inventory) == 0 {
		return nil, nil
	}

	var expiring, rest []string
	for _, item := range inventory {
		if item.Empty() {
			continue
		}
		if item.Expiring() {
			expiring = append(expiring, item.Name)
		} else {
			rest = append(rest, item.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Suggest up to 5 simple dinner recipes, one per line, no numbering.\n")
	if len(expiring) > 0 {
		b.WriteString("Prioritize these ingredients, they expire soon: ")
		b.WriteString(strings.Join(expiring, ", "))
		b.WriteString(".\n")
	}
	if len(rest) > 0 {
		b.WriteString("Also available: ")
		b.WriteString(strings.Join(rest, ", "))
		b.WriteString(".\n")
	}

	response, err := s.model.Call(ctx, b.String())
	if err != nil {
		return nil, fmt.Errorf("suggest recipes: %w", err)
	}

	var ideas []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ideas = append(ideas, line)
		if len(ideas) == 5 {
			break
		}
	}
	return ideas, nil
}
