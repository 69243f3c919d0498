package storage

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/abatilo/agenda/internal/task"
)

// documentVersion is written into every YAML store document.
const documentVersion = 1

const documentHeader = "# agenda store. Edit with care: ids and dependency edges must stay consistent.\n"

// document is the on-disk shape of a whole store.
type document struct {
	Version    int              `yaml:"version"`
	Projects   []*task.Project  `yaml:"projects"`
	Tags       []*task.Tag      `yaml:"tags,omitempty"`
	Categories []*task.Category `yaml:"categories,omitempty"`
}

// DecodeYAML parses a YAML store document. An empty document is an empty store.
func DecodeYAML(content []byte) (*task.Store, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return task.NewStore(), nil
	}

	var doc document
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, &parseError{"invalid YAML: " + err.Error()}
	}
	if doc.Version > documentVersion {
		return nil, &parseError{"unsupported document version"}
	}

	store := &task.Store{
		Projects:   doc.Projects,
		Tags:       doc.Tags,
		Categories: doc.Categories,
	}
	if err := checkStore(store); err != nil {
		return nil, err
	}
	return store, nil
}

// EncodeYAML renders a store as a YAML document.
func EncodeYAML(s *task.Store) ([]byte, error) {
	doc := document{
		Version:    documentVersion,
		Projects:   s.Projects,
		Tags:       s.Tags,
		Categories: s.Categories,
	}
	if doc.Projects == nil {
		doc.Projects = []*task.Project{}
	}

	var buf bytes.Buffer
	buf.WriteString(documentHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// parseError is a decoding failure without a file path attached yet.
type parseError struct {
	msg string
}

func (e *parseError) Error() string {
	return e.msg
}
