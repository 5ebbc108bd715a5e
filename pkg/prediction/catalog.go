package prediction

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-lifepath/pkg/lifepath"
)

//go:embed data/predictions.yaml
var dataFS embed.FS

const defaultCatalogPath = "data/predictions.yaml"

// Catalog holds the raw prediction templates.
type Catalog struct {
	Classic string         `yaml:"classic"`
	Paths   map[int]string `yaml:"paths"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog Catalog
	defaultErr     error
)

// DefaultCatalog returns a copy of the embedded catalog.
func DefaultCatalog() (Catalog, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultCatalogPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		catalog, err := LoadCatalog(f)
		if err != nil {
			defaultErr = err
			return
		}
		defaultCatalog = catalog
	})

	if defaultErr != nil {
		return Catalog{}, defaultErr
	}
	return defaultCatalog.clone(), nil
}

// LoadCatalog decodes a YAML catalog. Unknown keys are rejected so typos in
// hand-edited catalogs surface early.
func LoadCatalog(r io.Reader) (Catalog, error) {
	if r == nil {
		return Catalog{}, errors.New("prediction: missing reader")
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var catalog Catalog
	if err := dec.Decode(&catalog); err != nil {
		if errors.Is(err, io.EOF) {
			return Catalog{}, errors.New("prediction: empty catalog")
		}
		return Catalog{}, fmt.Errorf("prediction: decode catalog: %w", err)
	}

	catalog.Classic = strings.TrimSpace(catalog.Classic)
	for n, text := range catalog.Paths {
		catalog.Paths[n] = strings.TrimSpace(text)
	}
	return catalog, nil
}

// Validate checks that the catalog can serve every life path in mode.
func (c Catalog) Validate(mode Mode) error {
	switch mode {
	case ModeClassic:
		if c.Classic == "" {
			return errors.New("prediction: catalog has no classic template")
		}
	case ModeDistinct:
		for n := lifepath.Min; n <= lifepath.Max; n++ {
			if strings.TrimSpace(c.Paths[n]) == "" {
				return fmt.Errorf("prediction: catalog missing template for life path %d", n)
			}
		}
		for n := range c.Paths {
			if n < lifepath.Min || n > lifepath.Max {
				return fmt.Errorf("prediction: catalog template for invalid life path %d", n)
			}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return nil
}

func (c Catalog) clone() Catalog {
	out := Catalog{Classic: c.Classic}
	if c.Paths != nil {
		out.Paths = make(map[int]string, len(c.Paths))
		for n, text := range c.Paths {
			out.Paths[n] = text
		}
	}
	return out
}
