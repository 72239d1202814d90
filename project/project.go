// Package project is the persistence collaborator: JSON project files
// holding the grid targets, the palette, and the applied colors, plus
// the image-to-grid converter that creates new projects. The engine
// core never touches the filesystem; it hands snapshots here.
package project

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/cellfill/grid"
)

//go:embed samples/*.json
var samplesFS embed.FS

// Project is the serializable state of one coloring project.
type Project struct {
	Name      string   `json:"name,omitempty"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Palette   []string `json:"palette"`
	Targets   []int    `json:"targets"`
	Applied   []int    `json:"applied,omitempty"`
	Completed bool     `json:"completed,omitempty"`
}

// Grid rebuilds the canonical grid, including any applied colors.
func (p *Project) Grid() (*grid.Grid, error) {
	applied := p.Applied
	if applied == nil {
		applied = make([]int, 0)
	}
	return grid.Restore(p.Width, p.Height, p.Targets, applied)
}

// Colors parses the palette into packed 0xRRGGBB values.
func (p *Project) Colors() (grid.Palette, error) {
	if len(p.Palette) == 0 || len(p.Palette) > grid.MaxColors {
		return nil, fmt.Errorf("palette size %d out of range", len(p.Palette))
	}
	out := make(grid.Palette, len(p.Palette))
	for i, s := range p.Palette {
		var r, g, b uint32
		if len(s) != 7 || s[0] != '#' {
			return nil, fmt.Errorf("palette[%d]: bad color %q", i, s)
		}
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
			return nil, fmt.Errorf("palette[%d]: bad color %q", i, s)
		}
		out[i] = r<<16 | g<<8 | b
	}
	return out, nil
}

// Snapshot captures the current canonical state for saving.
func Snapshot(name string, g *grid.Grid, palette []string, completed bool) *Project {
	return &Project{
		Name:      name,
		Width:     g.Width,
		Height:    g.Height,
		Palette:   palette,
		Targets:   targetsOf(g),
		Applied:   g.AppliedColors(),
		Completed: completed,
	}
}

func targetsOf(g *grid.Grid) []int {
	out := make([]int, g.Len())
	for i := range out {
		out[i] = g.At(i).Target
	}
	return out
}

func (p *Project) validate() error {
	if p.Width <= 0 || p.Height <= 0 || p.Width > grid.MaxDim || p.Height > grid.MaxDim {
		return fmt.Errorf("invalid dimensions %dx%d", p.Width, p.Height)
	}
	if len(p.Targets) != p.Width*p.Height {
		return fmt.Errorf("target count %d does not match %dx%d", len(p.Targets), p.Width, p.Height)
	}
	for i, t := range p.Targets {
		if t < 0 || t >= len(p.Palette) {
			return fmt.Errorf("targets[%d]=%d outside palette", i, t)
		}
	}
	for i, a := range p.Applied {
		if a != grid.Unfilled && (a < 0 || a >= len(p.Palette)) {
			return fmt.Errorf("applied[%d]=%d outside palette", i, a)
		}
	}
	return nil
}

// Load reads a project file from disk.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	return decode(data)
}

// LoadSample reads one of the embedded sample projects by base name.
func LoadSample(name string) (*Project, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := fs.ReadFile(samplesFS, filepath.Join("samples", name))
	if err != nil {
		return nil, fmt.Errorf("read sample: %w", err)
	}
	return decode(data)
}

// Samples lists the embedded sample project names.
func Samples() []string {
	entries, err := samplesFS.ReadDir("samples")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	return names
}

func decode(data []byte) (*Project, error) {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal project: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save writes the project to path, creating parent directories.
func (p *Project) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create project dir: %w", err)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename project: %w", err)
	}
	return nil
}
