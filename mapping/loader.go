package mapping

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tommysiu/beanio/errorsx"
)

// Load decodes a Config from r as YAML and builds the validated
// mapping tree. YAML is the primary mapping-file format.
func Load(r io.Reader, registry *HandlerRegistry, beans map[string]BeanFactory) (*GroupDef, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errorsx.WrapConfigError(err, "mapping: invalid YAML mapping")
	}
	return BuildTree(&cfg, registry, beans)
}

// LoadFile opens path and loads it as a YAML mapping.
func LoadFile(path string, registry *HandlerRegistry, beans map[string]BeanFactory) (*GroupDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errorsx.WrapConfigError(err, "mapping: cannot open mapping file", "path", path)
	}
	defer f.Close()
	return Load(f, registry, beans)
}
