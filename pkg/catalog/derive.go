package catalog

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/webresearch/researcherctl/pkg/modelfile"
)

// ModelAPI is the client subset derivation needs.
type ModelAPI interface {
	Has(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name, modelfilePath string) error
}

// CreateResearchModel derives research-<base> from an installed base model
// with an overridden context length. ctxLen <= 0 picks the recommended
// length for the base. The intermediate Modelfile lives in a temporary file
// that is removed once the build finishes. Returns the new model's name.
func CreateResearchModel(ctx context.Context, client ModelAPI, base string, ctxLen int) (string, error) {
	ok, err := client.Has(ctx, base)
	if err != nil {
		return "", fmt.Errorf("catalog: check base model: %w", err)
	}

	if !ok {
		return "", fmt.Errorf("catalog: base model %s not found", base)
	}

	if ctxLen <= 0 {
		ctxLen = ContextLengthFor(base)
	}

	doc := modelfile.File{
		From:   base,
		Params: []modelfile.Param{{Key: "num_ctx", Value: strconv.Itoa(ctxLen)}},
	}

	tmp, err := os.CreateTemp("", "researcherctl-*.modelfile")
	if err != nil {
		return "", fmt.Errorf("catalog: temp modelfile: %w", err)
	}

	path := tmp.Name()
	_ = tmp.Close()

	defer func() { _ = os.Remove(path) }()

	if err := doc.Write(path); err != nil {
		return "", fmt.Errorf("catalog: %w", err)
	}

	name := ResearchModelName(base)

	if err := client.Create(ctx, name, path); err != nil {
		return "", fmt.Errorf("catalog: create %s: %w", name, err)
	}

	return name, nil
}
