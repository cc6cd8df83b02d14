package catalog

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

func decodeYAML(data []byte) (document, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return document{}, fmt.Errorf("parse YAML: %w", err)
	}
	return doc, nil
}
