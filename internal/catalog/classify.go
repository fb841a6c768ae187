package catalog

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/iterminator/internal/errs"
)

// Classifier reports whether the scheme stored at path has a light background.
type Classifier interface {
	IsLight(path string) (bool, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(path string) (bool, error)

// IsLight calls f(path).
func (f ClassifierFunc) IsLight(path string) (bool, error) {
	return f(path)
}

// PlistClassifier classifies iTerm2 property-list schemes by the HLS lightness
// of their background color.
type PlistClassifier struct{}

// IsLight parses the property list at path. Lightness >= 0.5 is light.
func (PlistClassifier) IsLight(path string) (bool, error) {
	p, err := ReadPalette(path)
	if err != nil {
		return false, err
	}
	bg := p.Background
	if bg == nil {
		return false, errs.Newf(errs.Classification, "catalog.IsLight", "%s has no complete Background Color", path)
	}
	return Lightness(bg.R, bg.G, bg.B) >= 0.5, nil
}

// Lightness returns the HLS lightness of an RGB color with components in [0,1].
func Lightness(r, g, b float64) float64 {
	hi := max(r, g, b)
	lo := min(r, g, b)
	return (hi + lo) / 2
}

// FilterByBrightness keeps entries whose classification equals light.
// Entries that cannot be classified are excluded and logged; the result is a
// NotFound error only when nothing survives.
func FilterByBrightness(c *Catalog, cls Classifier, light bool, log logr.Logger) (*Catalog, error) {
	excluded := 0
	filtered := c.Filter(func(e Entry) bool {
		isLight, err := cls.IsLight(e.Path)
		if err != nil {
			excluded++
			log.V(1).Info("excluding unclassifiable scheme", "scheme", e.Name, "error", err.Error())
			return false
		}
		return isLight == light
	})
	if excluded > 0 {
		log.V(1).Info("classification finished", "excluded", excluded, "kept", filtered.Len())
	}
	if filtered.Len() == 0 {
		return nil, errs.New(errs.NotFound, "catalog.FilterByBrightness", fmt.Sprintf("no %s schemes found", brightnessLabel(light)))
	}
	return filtered, nil
}

func brightnessLabel(light bool) string {
	if light {
		return "light"
	}
	return "dark"
}
