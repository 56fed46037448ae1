// Package catalog loads tool shortcut files.
//
// Built-in tools are embedded in the binary. A user directory may add tools
// or replace a built-in tool by declaring the same name.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/tuikeys/internal/keyboard"
	"github.com/verte-zerg/tuikeys/internal/model"
)

//go:embed data/*.toml
var builtin embed.FS

type toolFile struct {
	Name      string         `toml:"name"`
	Shortcuts []shortcutFile `toml:"shortcuts"`
}

type shortcutFile struct {
	ID          string   `toml:"id"`
	Description string   `toml:"description"`
	Keys        []string `toml:"keys"`
	Available   *bool    `toml:"available"`
}

// Catalog holds every loaded tool.
type Catalog struct {
	tools map[string]model.Tool
}

// Load reads the embedded tools and then every *.toml file in userDir.
// A missing userDir is not an error.
func Load(userDir string) (*Catalog, error) {
	c := &Catalog{tools: map[string]model.Tool{}}
	if err := c.loadFS(builtin, "data"); err != nil {
		return nil, fmt.Errorf("load built-in tools: %w", err)
	}
	if userDir == "" {
		return c, nil
	}
	if _, err := os.Stat(userDir); err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to stat catalog dir: %w", err)
	}
	if err := c.loadFS(os.DirFS(userDir), "."); err != nil {
		return nil, fmt.Errorf("load tools from %s: %w", userDir, err)
	}
	return c, nil
}

func (c *Catalog) loadFS(fsys fs.FS, dir string) error {
	paths, err := fs.Glob(fsys, filepath.ToSlash(filepath.Join(dir, "*.toml")))
	if err != nil {
		return err
	}
	sort.Strings(paths)
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		tool, err := Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		c.tools[tool.Name] = tool
	}
	return c.checkUniqueIDs()
}

func (c *Catalog) checkUniqueIDs() error {
	owners := map[string]string{}
	for _, name := range c.Names() {
		for _, sc := range c.tools[name].Shortcuts {
			if owner, ok := owners[sc.ID]; ok {
				return fmt.Errorf("shortcut id %q used by tools %q and %q", sc.ID, owner, name)
			}
			owners[sc.ID] = name
		}
	}
	return nil
}

// Parse decodes one tool file. Shortcuts without an id get "<tool>/NNN" by
// position; the result is sorted by id.
func Parse(data []byte) (model.Tool, error) {
	var file toolFile
	meta, err := toml.Decode(string(data), &file)
	if err != nil {
		return model.Tool{}, fmt.Errorf("failed to decode tool: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return model.Tool{}, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	name := strings.TrimSpace(file.Name)
	if name == "" {
		return model.Tool{}, errors.New("tool name is empty")
	}
	if strings.ContainsAny(name, "/ \t") {
		return model.Tool{}, fmt.Errorf("invalid tool name %q", name)
	}
	if len(file.Shortcuts) == 0 {
		return model.Tool{}, fmt.Errorf("tool %q has no shortcuts", name)
	}

	tool := model.Tool{Name: name, Shortcuts: make([]model.Shortcut, 0, len(file.Shortcuts))}
	seen := map[string]struct{}{}
	for i, entry := range file.Shortcuts {
		sc, err := parseShortcut(name, i, entry)
		if err != nil {
			return model.Tool{}, err
		}
		if _, ok := seen[sc.ID]; ok {
			return model.Tool{}, fmt.Errorf("duplicate shortcut id %q", sc.ID)
		}
		seen[sc.ID] = struct{}{}
		tool.Shortcuts = append(tool.Shortcuts, sc)
	}
	sort.Slice(tool.Shortcuts, func(i, j int) bool {
		return tool.Shortcuts[i].ID < tool.Shortcuts[j].ID
	})
	return tool, nil
}

func parseShortcut(tool string, index int, entry shortcutFile) (model.Shortcut, error) {
	id := strings.TrimSpace(entry.ID)
	if id == "" {
		id = fmt.Sprintf("%s/%03d", tool, index+1)
	}
	desc := strings.TrimSpace(entry.Description)
	if desc == "" {
		return model.Shortcut{}, fmt.Errorf("shortcut %q: description is empty", id)
	}
	if len(entry.Keys) == 0 {
		return model.Shortcut{}, fmt.Errorf("shortcut %q: no keys", id)
	}
	specs := make([]model.KeyCombinationSpec, 0, len(entry.Keys))
	deliverable := false
	for _, raw := range entry.Keys {
		spec, err := keyboard.ParseSpec(raw)
		if err != nil {
			return model.Shortcut{}, fmt.Errorf("shortcut %q: %w", id, err)
		}
		if keyboard.IsReservedSpec(spec) {
			return model.Shortcut{}, fmt.Errorf("shortcut %q: %q is reserved by the trainer", id, raw)
		}
		if keyboard.TerminalDeliverable(spec) {
			deliverable = true
		}
		specs = append(specs, spec)
	}
	available := deliverable
	if entry.Available != nil {
		available = *entry.Available
	}
	return model.Shortcut{
		ID:              id,
		Tool:            tool,
		Description:     desc,
		KeyCombinations: specs,
		IsAvailable:     available,
	}, nil
}

// Names returns tool names in ascending order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.tools))
	for name := range c.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadAllTools returns every tool keyed by name.
func (c *Catalog) LoadAllTools() (map[string]model.Tool, error) {
	out := make(map[string]model.Tool, len(c.tools))
	for name, tool := range c.tools {
		out[name] = tool
	}
	return out, nil
}

// LoadShortcutsByTool returns the shortcuts of tool sorted by id.
func (c *Catalog) LoadShortcutsByTool(tool string) ([]model.Shortcut, error) {
	t, ok := c.tools[tool]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q (available: %s)", tool, strings.Join(c.Names(), ", "))
	}
	return append([]model.Shortcut(nil), t.Shortcuts...), nil
}

// ShortcutByID finds a shortcut in any tool.
func (c *Catalog) ShortcutByID(id string) (model.Shortcut, bool) {
	for _, tool := range c.tools {
		for _, sc := range tool.Shortcuts {
			if sc.ID == id {
				return sc, true
			}
		}
	}
	return model.Shortcut{}, false
}
