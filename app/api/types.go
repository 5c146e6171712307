package api

import (
	"context"

	"github.com/lysyi3m/launch-comb/app/announcement"
)

type GeneratorInterface interface {
	Run(channel announcement.Channel, facts []announcement.NotifiedFact) (string, error)
}

var _ GeneratorInterface = (*announcement.Generator)(nil)

// StateReader is the read side of the seen-key store.
type StateReader interface {
	Load(ctx context.Context) (announcement.SeenState, error)
}

type Handler struct {
	store        StateReader
	sourceConfig *announcement.SourceConfig
	normalizer   *announcement.Normalizer
	generator    GeneratorInterface
	baseURL      string
	version      string
}

type factResponse struct {
	Article string `json:"article"`
	Pair    string `json:"pair"`
	UTC     string `json:"utc"`
	Local   string `json:"local"`
	Link    string `json:"link"`
}
