package scorer

import (
	"context"

	"cfpscout/internal/domain/entity"
)

// Noop is a scorer that never calls an external API. It lets the crawl and
// persistence paths run without credentials; every conference scores zero.
type Noop struct{}

// NewNoop creates a new no-op scorer.
func NewNoop() *Noop {
	return &Noop{}
}

// Score returns a fixed zero relevance for every conference.
func (n *Noop) Score(_ context.Context, _ *entity.Conference, _ string) (*entity.Relevance, error) {
	return &entity.Relevance{Score: 0, Justification: "scoring disabled"}, nil
}
