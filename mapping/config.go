package mapping

import (
	"regexp"

	"github.com/tommysiu/beanio/binding"
	"github.com/tommysiu/beanio/errorsx"
)

// Config is the root of a declarative mapping file. Both the YAML
// loader (loader.go) and the JSON loader (loader_json.go) decode into
// this same tree before validation and construction of the immutable
// GroupDef/RecordDef/FieldDef tree.
type Config struct {
	Root       *NodeConfig       `yaml:"root" json:"root"`
	Properties map[string]string `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// NodeConfig is either a group or a record node, discriminated by Kind.
// Using one struct for both keeps the YAML/JSON shape flat rather than
// needing a separate group type.
type NodeConfig struct {
	Kind      string         `yaml:"kind" json:"kind"` // "group" | "record"
	Name      string         `yaml:"name" json:"name"`
	Order     int            `yaml:"order,omitempty" json:"order,omitempty"`
	MinOccurs int            `yaml:"minOccurs,omitempty" json:"minOccurs,omitempty"`
	MaxOccurs int            `yaml:"maxOccurs,omitempty" json:"maxOccurs,omitempty"` // 0 (or absent) means 1; Unbounded (-1) means unbounded
	Children  []*NodeConfig  `yaml:"children,omitempty" json:"children,omitempty"`
	Fields    []*FieldConfig `yaml:"fields,omitempty" json:"fields,omitempty"`
	Bean      string         `yaml:"bean,omitempty" json:"bean,omitempty"`
}

// FieldConfig configures one FieldDef.
type FieldConfig struct {
	Name          string `yaml:"name" json:"name"`
	Position      int    `yaml:"position" json:"position"`
	MinLength     *int   `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength     *int   `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	MinOccurs     int    `yaml:"minOccurs,omitempty" json:"minOccurs,omitempty"`
	MaxOccurs     int    `yaml:"maxOccurs,omitempty" json:"maxOccurs,omitempty"`
	Required      bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Trim          bool   `yaml:"trim,omitempty" json:"trim,omitempty"`
	Identifier    bool   `yaml:"identifier,omitempty" json:"identifier,omitempty"`
	Literal       string `yaml:"literal,omitempty" json:"literal,omitempty"`
	Regex         string `yaml:"regex,omitempty" json:"regex,omitempty"`
	Default       string `yaml:"default,omitempty" json:"default,omitempty"`
	HasDefault    bool   `yaml:"hasDefault,omitempty" json:"hasDefault,omitempty"`
	Type          string `yaml:"type,omitempty" json:"type,omitempty"` // "string"|"int"|"number"|"bool"|"date"
	HandlerName   string `yaml:"handler,omitempty" json:"handler,omitempty"`
	DecimalPlaces int    `yaml:"decimalPlaces,omitempty" json:"decimalPlaces,omitempty"`
	DateFormat    string `yaml:"dateFormat,omitempty" json:"dateFormat,omitempty"`
	Collection    string `yaml:"collection,omitempty" json:"collection,omitempty"` // "none"|"slice"|"orderedSet"
	Property      string `yaml:"property,omitempty" json:"property,omitempty"`
	PadChar       string `yaml:"padChar,omitempty" json:"padChar,omitempty"`
	Justify       string `yaml:"justify,omitempty" json:"justify,omitempty"` // "left"|"right"
}

// BeanFactory constructs a zero-valued bean for a record name.
type BeanFactory func() any

// BuildTree constructs the immutable GroupDef/RecordDef/FieldDef tree
// from a decoded Config, validating every constraint before returning.
// registry resolves each field's declared type to a Handler; beans
// resolves a record's configured Bean name to a factory (a record with
// no Bean configured parses into a map[string]any; a Bean name with no
// factory in beans is a ConfigError). cfg.Properties is copied onto the root group
// unchanged, for callers that round-trip stream-level metadata such as
// locale or charset.
func BuildTree(cfg *Config, registry *HandlerRegistry, beans map[string]BeanFactory) (*GroupDef, error) {
	if cfg == nil || cfg.Root == nil {
		return nil, errorsx.NewConfigError("mapping: configuration has no root node")
	}
	root, err := buildNode(cfg.Root, registry, beans)
	if err != nil {
		return nil, err
	}
	g, ok := root.(*GroupDef)
	if !ok {
		return nil, errorsx.NewConfigError("mapping: root node must be a group", "kind", cfg.Root.Kind)
	}
	g.Properties = cfg.Properties
	if errs := Validate(g); len(errs) > 0 {
		return nil, errs[0]
	}
	return g, nil
}

func buildNode(nc *NodeConfig, registry *HandlerRegistry, beans map[string]BeanFactory) (Node, error) {
	if nc.Name == "" {
		return nil, errorsx.NewConfigError("mapping: node is missing a name")
	}
	switch nc.Kind {
	case "group":
		g := &GroupDef{
			Name:      nc.Name,
			Order:     nc.Order,
			MinOccurs: nc.MinOccurs,
			MaxOccurs: normalizeMax(nc.MaxOccurs),
		}
		for _, cc := range nc.Children {
			child, err := buildNode(cc, registry, beans)
			if err != nil {
				return nil, err
			}
			g.Children = append(g.Children, child)
		}
		return g, nil
	case "record":
		rd := &RecordDef{
			Name:      nc.Name,
			Order:     nc.Order,
			MinOccurs: nc.MinOccurs,
			MaxOccurs: normalizeMax(nc.MaxOccurs),
		}
		if nc.Bean != "" {
			if factory, ok := beans[nc.Bean]; ok {
				rd.New = factory
			} else {
				return nil, errorsx.NewConfigError("mapping: no bean factory registered", "record", nc.Name, "bean", nc.Bean)
			}
		}
		for _, fc := range nc.Fields {
			fd, err := buildField(nc.Name, fc, registry, rd.New == nil)
			if err != nil {
				return nil, err
			}
			rd.Fields = append(rd.Fields, fd)
		}
		return rd, nil
	default:
		return nil, errorsx.NewConfigError("mapping: unknown node kind", "name", nc.Name, "kind", nc.Kind)
	}
}

func normalizeMax(v int) int {
	if v == 0 {
		return 1
	}
	return v
}

func buildField(recordName string, fc *FieldConfig, registry *HandlerRegistry, mapBean bool) (*FieldDef, error) {
	if fc.Name == "" {
		return nil, errorsx.NewConfigError("mapping: field is missing a name", "record", recordName)
	}
	fd := &FieldDef{
		Name:       fc.Name,
		Position:   fc.Position,
		MinLength:  fc.MinLength,
		MaxLength:  fc.MaxLength,
		MinOccurs:  fc.MinOccurs,
		MaxOccurs:  fc.MaxOccurs,
		Required:   fc.Required,
		Trim:       fc.Trim,
		Identifier: fc.Identifier,
		Literal:    fc.Literal,
		HasDefault: fc.HasDefault,
	}
	if fd.MaxOccurs == 0 {
		fd.MaxOccurs = Unbounded
	}

	if fc.Regex != "" {
		re, err := regexp.Compile(fc.Regex)
		if err != nil {
			return nil, errorsx.WrapConfigError(err, "mapping: invalid regex", "record", recordName, "field", fc.Name)
		}
		fd.Regex = re
	}

	switch fc.Collection {
	case "", "none":
		fd.Collection = CollectionNone
	case "slice":
		fd.Collection = CollectionSlice
	case "orderedSet":
		fd.Collection = CollectionOrderedSet
	default:
		return nil, errorsx.NewConfigError("mapping: unknown collection kind", "record", recordName, "field", fc.Name, "collection", fc.Collection)
	}

	switch fc.Justify {
	case "":
		if fc.Type == "int" || fc.Type == "number" {
			fd.Justify = JustifyRight
		} else {
			fd.Justify = JustifyLeft
		}
	case "left":
		fd.Justify = JustifyLeft
	case "right":
		fd.Justify = JustifyRight
	default:
		return nil, errorsx.NewConfigError("mapping: unknown justify value", "record", recordName, "field", fc.Name, "justify", fc.Justify)
	}
	if fc.PadChar != "" {
		fd.PadChar = fc.PadChar[0]
	}

	if fc.Type != "" {
		if fc.Type == "date" {
			if fc.DateFormat == "" {
				return nil, errorsx.NewConfigError("mapping: date field requires dateFormat", "record", recordName, "field", fc.Name)
			}
			fd.Handler = DateHandler{Layout: fc.DateFormat}
		} else if fc.Type == "number" && fc.DecimalPlaces != 0 {
			fd.Handler = NumberHandler{DecimalPlaces: fc.DecimalPlaces}
		} else if registry != nil {
			fd.Handler = registry.Lookup(fc.Type, fc.HandlerName)
		}
	}

	if fc.HasDefault {
		def, err := fd.handler().Parse(fc.Default)
		if err != nil {
			return nil, errorsx.WrapConfigError(err, "mapping: invalid default value", "record", recordName, "field", fc.Name)
		}
		fd.Default = def
	}

	property := fc.Property
	if property == "" {
		property = fc.Name
	}
	if mapBean {
		fd.Accessor = binding.NewMapAccessor(property)
	} else {
		fd.Accessor = binding.NewStructAccessor(property)
	}

	return fd, nil
}
