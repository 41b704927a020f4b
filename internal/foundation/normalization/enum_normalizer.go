package normalization

import "fmt"

// EnumNormalizer names its enumeration in errors and warnings.
type EnumNormalizer[T comparable] struct {
	*Normalizer[T]
	name string
}

// NewEnumNormalizer builds a named normalizer.
func NewEnumNormalizer[T comparable](name string, values map[string]T, fallback T) *EnumNormalizer[T] {
	return &EnumNormalizer[T]{Normalizer: NewNormalizer(values, fallback), name: name}
}

// NormalizeWithValidation returns an error naming the enumeration for unknown input.
func (e *EnumNormalizer[T]) NormalizeWithValidation(raw string) (T, error) {
	v, err := e.NormalizeWithError(raw)
	if err != nil {
		return v, fmt.Errorf("invalid %s: %w", e.name, err)
	}
	return v, nil
}

// Result is a normalized value and, when the spelling changed, a warning.
type Result[T comparable] struct {
	Value   T
	Changed bool
	Warning string
}

// NormalizeWithWarning normalizes raw and describes any change to its spelling.
func (e *EnumNormalizer[T]) NormalizeWithWarning(field, raw string) Result[T] {
	res := Result[T]{Value: e.Normalize(raw)}
	if folded := fold(raw); folded != raw {
		res.Changed = true
		res.Warning = fmt.Sprintf("normalized %s from '%s' to '%s'", field, raw, folded)
	}
	return res
}
