package admin

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"vitrine/internal/catalog"
)

// importFile is the YAML bulk-import format: a flat list of products.
type importFile struct {
	Products []ProductInput `yaml:"products"`
}

// ImportResult summarizes a bulk import. Failed entries keep their error so
// the CLI can report per-line outcomes.
type ImportResult struct {
	Created []catalog.Product
	Failed  []ImportFailure
}

// ImportFailure is one rejected import entry.
type ImportFailure struct {
	Index int
	Name  string
	Err   error
}

// ImportProducts reads a YAML product list and creates each entry through the
// regular create endpoint. One bad entry does not stop the rest; the result
// carries both outcomes.
func (s *Service) ImportProducts(ctx context.Context, r io.Reader) (*ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("import: read: %w", err)
	}

	var file importFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("import: parse YAML: %w", err)
	}
	if len(file.Products) == 0 {
		return nil, fmt.Errorf("import: no products in file")
	}

	result := &ImportResult{}
	for i, input := range file.Products {
		p, err := s.CreateProduct(ctx, input)
		if err != nil {
			result.Failed = append(result.Failed, ImportFailure{Index: i, Name: input.Name, Err: err})
			continue
		}
		result.Created = append(result.Created, *p)
	}

	s.logger.Info("bulk import finished",
		zap.Int("created", len(result.Created)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}
