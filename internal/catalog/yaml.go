package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type yamlProduct struct {
	ID       int     `yaml:"id"`
	Name     string  `yaml:"name"`
	Category string  `yaml:"category"`
	Weight   float64 `yaml:"weight"`
	Price    int     `yaml:"price"`
}

// yamlFile accepts either a bare list of products or a document with a
// top-level "classes" key, matching the detector's class definition file.
type yamlFile struct {
	Classes []yamlProduct `yaml:"classes"`
}

// LoadYAML builds a catalog snapshot from a YAML product file.
func LoadYAML(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return ParseYAML(data)
}

func ParseYAML(data []byte) (*Memory, error) {
	var doc yamlFile
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Classes) > 0 {
		return NewMemory(convertYAML(doc.Classes)), nil
	}

	var list []yamlProduct
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing catalog yaml: %w", err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("catalog yaml contains no products")
	}
	return NewMemory(convertYAML(list)), nil
}

func convertYAML(raw []yamlProduct) []ProductInfo {
	products := make([]ProductInfo, 0, len(raw))
	for _, p := range raw {
		products = append(products, ProductInfo{
			ID:       p.ID,
			Name:     p.Name,
			Category: ParseCategory(p.Category),
			Weight:   p.Weight,
			Price:    p.Price,
		})
	}
	return products
}
