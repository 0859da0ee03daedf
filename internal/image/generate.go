package image

import (
	"context"

	"github.com/dmorgan81/dreamwriter/internal/prompt"
)

type Result struct {
	Data []byte
	Seed int64
}

type Generator interface {
	Generate(context.Context, prompt.Params) (Result, error)
}
