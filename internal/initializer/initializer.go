// Package initializer seeds a task model from board templates. The
// built-in catalog is embedded in the binary; users can supply their own
// catalog file in the same YAML format.
package initializer

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/boards/pkg/types"
)

//go:embed templates.yaml
var builtinTemplates []byte

// DefaultTemplate is used by init when no template is named.
const DefaultTemplate = "kanban"

// ErrTemplateNotFound is returned for a template name missing from the
// catalog.
var ErrTemplateNotFound = errors.New("template not found")

// Catalog is a named set of board templates.
type Catalog struct {
	Templates []Template `yaml:"templates"`
}

// Template describes one board and its columns.
type Template struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Board       string           `yaml:"board"`
	Columns     []ColumnTemplate `yaml:"columns"`
}

// ColumnTemplate describes a column and its starter tasks. A zero
// WipLimit selects the model default.
type ColumnTemplate struct {
	Name     string           `yaml:"name"`
	WipLimit int              `yaml:"wip_limit"`
	Size     types.ColumnSize `yaml:"size"`
	Tasks    []TaskTemplate   `yaml:"tasks"`
}

// TaskTemplate is a starter task.
type TaskTemplate struct {
	Desc     string `yaml:"desc"`
	LongDesc string `yaml:"longdesc"`
	Color    string `yaml:"color"`
}

// Model is the part of the task model the initializer drives.
type Model interface {
	GetBoards() []types.Board
	AddBoard(ctx context.Context, name string) (string, error)
	SetCurrentBoard(ctx context.Context, boardID string) error
	AddColumn(ctx context.Context, name string, wipLimit int, options types.ColumnOptions) (string, error)
	AddTask(ctx context.Context, columnID, desc, longdesc string, options types.TaskPresentationalOptions) (string, error)
}

// Builtin returns the embedded catalog.
func Builtin() (*Catalog, error) {
	return Parse(builtinTemplates)
}

// LoadFile reads a catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading templates: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every template has a unique name, a board name, and
// well-formed columns.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Templates))
	for i, t := range c.Templates {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("template %d: %w", i, types.ErrInvalidName)
		}
		if seen[t.Name] {
			return fmt.Errorf("template %q defined twice", t.Name)
		}
		seen[t.Name] = true
		if strings.TrimSpace(t.Board) == "" {
			return fmt.Errorf("template %q: board: %w", t.Name, types.ErrInvalidName)
		}
		for _, col := range t.Columns {
			if strings.TrimSpace(col.Name) == "" {
				return fmt.Errorf("template %q: column: %w", t.Name, types.ErrInvalidName)
			}
			if col.WipLimit < 0 {
				return fmt.Errorf("template %q: column %q: %w", t.Name, col.Name, types.ErrInvalidWipLimit)
			}
			if col.Size != "" && !col.Size.Valid() {
				return fmt.Errorf("template %q: column %q: unknown size %q", t.Name, col.Name, col.Size)
			}
		}
	}
	return nil
}

// Names lists the template names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Templates))
	for i, t := range c.Templates {
		names[i] = t.Name
	}
	return names
}

// Lookup returns the named template.
func (c *Catalog) Lookup(name string) (Template, error) {
	for _, t := range c.Templates {
		if t.Name == name {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
}

// Seed builds the named template only when m has no boards. It reports
// whether anything was created.
func Seed(ctx context.Context, m Model, c *Catalog, name string) (bool, error) {
	if len(m.GetBoards()) > 0 {
		return false, nil
	}
	if _, err := Apply(ctx, m, c, name, ""); err != nil {
		return false, err
	}
	return true, nil
}

// Apply adds a board built from the named template and makes it current.
// A non-empty boardName overrides the template's board name. It returns
// the new board's ID.
func Apply(ctx context.Context, m Model, c *Catalog, name, boardName string) (string, error) {
	t, err := c.Lookup(name)
	if err != nil {
		return "", err
	}
	if boardName == "" {
		boardName = t.Board
	}

	boardID, err := m.AddBoard(ctx, boardName)
	if err != nil {
		return "", fmt.Errorf("add board: %w", err)
	}
	if err := m.SetCurrentBoard(ctx, boardID); err != nil {
		return "", fmt.Errorf("set current board: %w", err)
	}

	for _, col := range t.Columns {
		colID, err := m.AddColumn(ctx, col.Name, col.WipLimit, types.ColumnOptions{Size: col.Size})
		if err != nil {
			return "", fmt.Errorf("add column %q: %w", col.Name, err)
		}
		for _, task := range col.Tasks {
			opts := types.TaskPresentationalOptions{Color: task.Color}
			if _, err := m.AddTask(ctx, colID, task.Desc, task.LongDesc, opts); err != nil {
				return "", fmt.Errorf("add task %q: %w", task.Desc, err)
			}
		}
	}
	return boardID, nil
}
