package config

// SecretMask replaces secret values in every serialized form of the
// configuration. Exported so tests can assert on it.
const SecretMask = "<masked>"

// SecretString holds a sensitive configuration value, the API key for
// example. It serializes and prints as SecretMask so configuration dumps,
// debug reports and logs never leak it. Reveal returns the real value at the
// one place it is needed.
type SecretString string

// Reveal returns the actual secret.
func (s SecretString) Reveal() string {
	return string(s)
}

// String masks the secret for prints and logs.
func (s SecretString) String() string {
	if len(s) == 0 {
		return ""
	}
	return SecretMask
}

// MarshalJSON keeps the secret out of JSON output.
func (s SecretString) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return []byte(`"` + SecretMask + `"`), nil
}

// MarshalYAML keeps the secret out of YAML output, configuration dumps in
// particular.
func (s SecretString) MarshalYAML() (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return SecretMask, nil
}
