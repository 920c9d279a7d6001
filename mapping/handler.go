package mapping

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Handler converts between a field's external text form and an internal
// value of its declared type. Handlers are pure and stateless.
type Handler interface {
	Parse(text string) (any, error)
	Format(value any) (string, error)
}

type handlerKey struct {
	typeName string
	name     string
}

// HandlerRegistry is the mapping from (declared type, optional named
// handler) to a reversible text<->value converter. It is read-mostly
// and safe for concurrent use once configuration has settled; the
// mutex only matters if a caller registers custom handlers after readers
// are already running.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[handlerKey]Handler
}

// NewHandlerRegistry returns an empty registry. Use RegisterBuiltins to
// populate it with the standard string/int/number/bool handlers, and
// RegisterDateHandler to add date handlers.
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[handlerKey]Handler)}
}

// Register associates a handler with a declared type and an optional
// name (empty string registers the default handler for that type).
func (r *HandlerRegistry) Register(typeName, name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[handlerKey{typeName, name}] = h
}

// Lookup returns the handler registered for (typeName, name), falling
// back to the type's default handler, and finally to the identity
// handler if none is registered.
func (r *HandlerRegistry) Lookup(typeName, name string) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name != "" {
		if h, ok := r.handlers[handlerKey{typeName, name}]; ok {
			return h
		}
	}
	if h, ok := r.handlers[handlerKey{typeName, ""}]; ok {
		return h
	}
	return identityHandler{}
}

// identityHandler is the "no handler registered" fallback: string in,
// string out.
type identityHandler struct{}

func (identityHandler) Parse(text string) (any, error) { return text, nil }
func (identityHandler) Format(value any) (string, error) {
	if value == nil {
		return "", nil
	}
	if s, ok := value.(string); ok {
		return s, nil
	}
	return fmt.Sprintf("%v", value), nil
}

// intHandler parses/formats int64 values.
type intHandler struct{}

func (intHandler) Parse(text string) (any, error) {
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("not an integer: %q", text)
	}
	return v, nil
}

func (intHandler) Format(value any) (string, error) {
	if value == nil {
		return "", nil
	}
	switch v := value.(type) {
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	default:
		return "", fmt.Errorf("value %v (%T) is not an integer", value, value)
	}
}

// boolHandler parses/formats bool values using strconv.ParseBool.
type boolHandler struct{}

func (boolHandler) Parse(text string) (any, error) {
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("not a boolean: %q", text)
	}
	return v, nil
}

func (boolHandler) Format(value any) (string, error) {
	if value == nil {
		return "", nil
	}
	b, ok := value.(bool)
	if !ok {
		return "", fmt.Errorf("value %v (%T) is not a boolean", value, value)
	}
	return strconv.FormatBool(b), nil
}

// NumberHandler parses/formats float64 values, optionally treating the
// text as an implied-decimal integer via DecimalPlaces.
type NumberHandler struct {
	DecimalPlaces int
}

func (n NumberHandler) Parse(text string) (any, error) {
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", text)
	}
	return v / math.Pow(10, float64(n.DecimalPlaces)), nil
}

func (n NumberHandler) Format(value any) (string, error) {
	if value == nil {
		return "", nil
	}
	f, ok := toFloat64(value)
	if !ok {
		return "", fmt.Errorf("value %v (%T) is not numeric", value, value)
	}
	scaled := f * math.Pow(10, float64(n.DecimalPlaces))
	return strconv.FormatInt(int64(math.Round(scaled)), 10), nil
}

func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// DateHandler parses/formats time.Time values using a fixed layout.
type DateHandler struct {
	Layout string
}

func (d DateHandler) Parse(text string) (any, error) {
	if text == "" {
		return nil, nil
	}
	t, err := time.Parse(d.Layout, text)
	if err != nil {
		return nil, fmt.Errorf("not a date in layout %q: %w", d.Layout, err)
	}
	return t, nil
}

func (d DateHandler) Format(value any) (string, error) {
	if value == nil {
		return "", nil
	}
	t, ok := value.(time.Time)
	if !ok {
		return "", fmt.Errorf("value %v (%T) is not a time.Time", value, value)
	}
	return t.Format(d.Layout), nil
}

// RegisterBuiltins populates r with the default handlers for the
// declared types the loader recognises out of the box: string, int,
// number, bool. Date handlers need a layout and are registered per
// mapping via RegisterDateHandler, since there is no sensible default
// layout.
func RegisterBuiltins(r *HandlerRegistry) {
	r.Register("string", "", identityHandler{})
	r.Register("int", "", intHandler{})
	r.Register("number", "", NumberHandler{})
	r.Register("bool", "", boolHandler{})
}

// RegisterDateHandler registers a DateHandler for the "date" type under
// the given name (or as the default when name is "").
func RegisterDateHandler(r *HandlerRegistry, name, layout string) {
	r.Register("date", name, DateHandler{Layout: layout})
}
