package batch

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v3"

	"github.com/wonny/finhealth/internal/contracts"
)

// MaxConcurrency caps the worker pool size a manifest may ask for
const MaxConcurrency = 32

// Manifest lists the businesses an offline batch run assesses
type Manifest struct {
	Name        string   `yaml:"name" json:"name"`
	Concurrency int      `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
	Defaults    Defaults `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	Businesses  []Entry  `yaml:"businesses" json:"businesses"`
}

// Defaults fill in metadata an entry leaves empty
type Defaults struct {
	Industry        contracts.Industry     `yaml:"industry,omitempty" json:"industry,omitempty"`
	Size            contracts.BusinessSize `yaml:"business_size,omitempty" json:"business_size,omitempty"`
	EstablishedYear int                    `yaml:"established_year,omitempty" json:"established_year,omitempty"`
}

// Entry is one business with the statement files for a single period.
// Files are merged in order; a non-zero field in a later file wins.
type Entry struct {
	Name            string                 `yaml:"name" json:"name"`
	Industry        contracts.Industry     `yaml:"industry,omitempty" json:"industry,omitempty"`
	Size            contracts.BusinessSize `yaml:"business_size,omitempty" json:"business_size,omitempty"`
	EstablishedYear int                    `yaml:"established_year,omitempty" json:"established_year,omitempty"`
	Files           []string               `yaml:"files" json:"files"`
}

// Meta resolves the entry's scoring metadata against the defaults
func (e Entry) Meta(d Defaults) contracts.BusinessMeta {
	m := contracts.BusinessMeta{
		Name:            e.Name,
		Industry:        e.Industry,
		Size:            e.Size,
		EstablishedYear: e.EstablishedYear,
	}
	if m.Industry == "" {
		m.Industry = d.Industry
	}
	if m.Industry == "" {
		m.Industry = contracts.IndustryOther
	}
	if m.Size == "" {
		m.Size = d.Size
	}
	if m.Size == "" {
		m.Size = contracts.SizeSmall
	}
	if m.EstablishedYear == 0 {
		m.EstablishedYear = d.EstablishedYear
	}
	return m
}

// Load reads a manifest and returns it with the raw bytes.
// .hjson and .json files go through HJSON; everything else is YAML.
// Unknown fields fail the load in both formats.
func Load(path string) (*Manifest, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var m *Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hjson", ".json":
		m, err = decodeHJSON(data)
	default:
		m, err = decodeYAML(data)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}

	if err := Validate(m); err != nil {
		return nil, data, err
	}
	return m, data, nil
}

func decodeYAML(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// decodeHJSON normalises HJSON to plain JSON and decodes it strictly
func decodeHJSON(data []byte) (*Manifest, error) {
	var generic interface{}
	if err := hjson.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	plain, err := json.Marshal(generic)
	if err != nil {
		return nil, err
	}

	var m Manifest
	dec := json.NewDecoder(bytes.NewReader(plain))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Hash returns the sha256 of the manifest's canonical JSON
func Hash(m *Manifest) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
