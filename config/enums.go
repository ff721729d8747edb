package config

import (
	"fmt"

	yaml "gopkg.in/yaml.v3"
)

// OutputMode selects how command results are rendered.
type OutputMode int

const (
	OutputModeText OutputMode = iota
	OutputModeJSON
)

var outputModeNames = []string{"text", "json"}

func (m OutputMode) String() string {
	if !m.IsValid() {
		return fmt.Sprintf("OutputMode(%d)", int(m))
	}
	return outputModeNames[m]
}

func (m OutputMode) IsValid() bool {
	return m >= OutputModeText && m <= OutputModeJSON
}

// OutputModeNames returns all mode names in declaration order.
func OutputModeNames() []string {
	out := make([]string, len(outputModeNames))
	copy(out, outputModeNames)
	return out
}

// ParseOutputMode converts user input to an OutputMode.
func ParseOutputMode(s string) (OutputMode, error) {
	for i, name := range outputModeNames {
		if name == s {
			return OutputMode(i), nil
		}
	}
	return 0, fmt.Errorf("%q is not a valid OutputMode", s)
}

func (m OutputMode) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("%d is not a valid OutputMode", int(m))
	}
	return []byte(m.String()), nil
}

func (m *OutputMode) UnmarshalText(text []byte) error {
	parsed, err := ParseOutputMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m OutputMode) MarshalYAML() (any, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("%d is not a valid OutputMode", int(m))
	}
	return m.String(), nil
}

func (m *OutputMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return m.UnmarshalText([]byte(s))
}
