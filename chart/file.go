package chart

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	payments "github.com/metaversemultiverse/Payments-Gateway"
)

// FileSource reads a YAML document of the form
//
//	accounts:
//	  - code: "1000"
//	    metadata:
//	      category: cards
//
// JSON files are valid YAML and load the same way.
type FileSource struct {
	Path string
}

type fileDocument struct {
	Accounts []payments.Account `yaml:"accounts"`
}

func (s *FileSource) Load(ctx context.Context) ([]payments.Account, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Wrap(err, "Failed read chart of accounts")
	}
	return Parse(b)
}

// Parse decodes a chart of accounts document.
func Parse(b []byte) ([]payments.Account, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, errors.Wrap(err, "Failed unmarshal chart of accounts")
	}
	for i := range doc.Accounts {
		doc.Accounts[i].Metadata = normalize(doc.Accounts[i].Metadata)
	}
	if err := Validate(doc.Accounts); err != nil {
		return nil, err
	}
	return doc.Accounts, nil
}

// normalize turns nested map[interface{}]interface{} values into
// map[string]interface{} so metadata marshals to JSON.
func normalize(m map[string]interface{}) map[string]interface{} {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
	return m
}

func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return normalize(t)
	case map[interface{}]interface{}:
		res := make(map[string]interface{}, len(t))
		for k, vv := range t {
			res[fmt.Sprint(k)] = normalizeValue(vv)
		}
		return res
	case []interface{}:
		for i := range t {
			t[i] = normalizeValue(t[i])
		}
		return t
	default:
		return v
	}
}
