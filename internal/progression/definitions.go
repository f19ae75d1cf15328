package progression

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/levelupapp/levelup-server/internal/domain"
	"github.com/levelupapp/levelup-server/internal/errors"
)

//go:embed data/levels.yaml
var defaultLevelsYAML []byte

//go:embed data/tasks.yaml
var defaultTasksYAML []byte

type levelsFile struct {
	Levels []domain.LevelDefinition `yaml:"levels"`
}

type tasksFile struct {
	Tasks []domain.TaskDefinition `yaml:"tasks"`
}

// DefaultLevelTable returns the built-in 15-level roadmap.
func DefaultLevelTable() *LevelTable {
	t, err := ParseLevels(bytes.NewReader(defaultLevelsYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded level table: %v", err))
	}
	return t
}

// DefaultCatalog returns the built-in daily task catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseTasks(bytes.NewReader(defaultTasksYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded task catalog: %v", err))
	}
	return c
}

// LoadLevels reads a level table from a YAML file, or returns the built-in
// table when path is empty.
func LoadLevels(path string) (*LevelTable, error) {
	if path == "" {
		return DefaultLevelTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open levels file: %w", err)
	}
	defer f.Close()
	return ParseLevels(f)
}

// LoadTasks reads a task catalog from a YAML file, or returns the built-in
// catalog when path is empty.
func LoadTasks(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tasks file: %w", err)
	}
	defer f.Close()
	return ParseTasks(f)
}

// ParseLevels decodes and validates a YAML level table.
func ParseLevels(r io.Reader) (*LevelTable, error) {
	var doc levelsFile
	if err := decodeStrict(r, &doc); err != nil {
		return nil, errors.Wrap(errors.Join(ErrInvalidTable, err), errors.CodeValidation, "decode definitions")
	}
	return NewLevelTable(doc.Levels)
}

// ParseTasks decodes and validates a YAML task catalog.
func ParseTasks(r io.Reader) (*Catalog, error) {
	var doc tasksFile
	if err := decodeStrict(r, &doc); err != nil {
		return nil, errors.Wrap(errors.Join(ErrInvalidTable, err), errors.CodeValidation, "decode definitions")
	}
	return NewCatalog(doc.Tasks)
}

func decodeStrict(r io.Reader, v any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return errors.Validation("definition file is empty")
		}
		return err
	}
	return nil
}
