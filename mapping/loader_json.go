package mapping

import (
	"encoding/json"
	"io"
	"os"

	"github.com/tommysiu/beanio/errorsx"
)

// UnmarshalJSON requires "kind" and "name" via mustUnmarshalString
// before delegating the rest of the fields to the plain struct tags.
func (nc *NodeConfig) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := mustUnmarshalString(raw, "kind", &nc.Kind); err != nil {
		return err
	}
	if err := mustUnmarshalString(raw, "name", &nc.Name); err != nil {
		return err
	}

	type alias NodeConfig
	aux := (*alias)(nc)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	return nil
}

// UnmarshalJSON requires "name" and tolerates a missing "property",
// leaving it empty (buildField falls back to the field name) rather
// than failing.
func (fc *FieldConfig) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := mustUnmarshalString(raw, "name", &fc.Name); err != nil {
		return err
	}
	if err := unmarshalString(raw, "property", &fc.Property); err != nil {
		return err
	}

	type alias FieldConfig
	aux := (*alias)(fc)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	return nil
}

// LoadJSON decodes a Config from r and builds the validated mapping
// tree.
func LoadJSON(r io.Reader, registry *HandlerRegistry, beans map[string]BeanFactory) (*GroupDef, error) {
	var cfg Config
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errorsx.WrapConfigError(err, "mapping: invalid JSON mapping")
	}
	return BuildTree(&cfg, registry, beans)
}

// LoadJSONFile opens path and loads it as a JSON mapping.
func LoadJSONFile(path string, registry *HandlerRegistry, beans map[string]BeanFactory) (*GroupDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errorsx.WrapConfigError(err, "mapping: cannot open mapping file", "path", path)
	}
	defer f.Close()
	return LoadJSON(f, registry, beans)
}
