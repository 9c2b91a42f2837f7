package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/raphaelgruber/relmap/internal/resolve"
)

// vocabFile is the on-disk vocabulary. Omitted keys keep the built-in values.
type vocabFile struct {
	Center           string            `yaml:"center"`
	SelfTokens       []string          `yaml:"self_tokens" validate:"dive,required"`
	Roles            []string          `yaml:"roles" validate:"dive,required"`
	TrackingPronouns []string          `yaml:"tracking_pronouns" validate:"dive,required"`
	FixedPronouns    map[string]string `yaml:"fixed_pronouns" validate:"dive,keys,required,endkeys,required"`
}

// LoadVocabulary reads a vocabulary YAML file. An empty path returns the
// built-in Korean vocabulary.
func LoadVocabulary(path string) (resolve.Vocabulary, error) {
	if path == "" {
		return resolve.DefaultVocabulary(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return resolve.Vocabulary{}, fmt.Errorf("read vocabulary: %w", err)
	}
	return ParseVocabulary(bytes.NewReader(data))
}

// ParseVocabulary decodes a vocabulary from YAML.
func ParseVocabulary(r io.Reader) (resolve.Vocabulary, error) {
	var f vocabFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return resolve.Vocabulary{}, fmt.Errorf("decode vocabulary: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return resolve.Vocabulary{}, fmt.Errorf("%w: vocabulary: %v", ErrInvalidConfig, err)
	}

	v := resolve.DefaultVocabulary()
	if f.Center != "" {
		v.Center = f.Center
		v.SelfTokens = []string{f.Center}
	}
	if f.SelfTokens != nil {
		v.SelfTokens = f.SelfTokens
	}
	if f.Roles != nil {
		v.Roles = f.Roles
	}
	if f.TrackingPronouns != nil {
		v.TrackingPronouns = f.TrackingPronouns
	}
	if f.FixedPronouns != nil {
		v.FixedPronouns = f.FixedPronouns
	}
	return v, nil
}

// MarshalVocabulary renders a vocabulary as YAML.
func MarshalVocabulary(v resolve.Vocabulary) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode vocabulary: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode vocabulary: %w", err)
	}
	return buf.Bytes(), nil
}
