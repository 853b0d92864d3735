// Package catalog resolves the dynamically named droid animations and sound
// effects. The key set is data, loaded from YAML, not a static type.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/spheroedu/bridge/pkg/core"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type fileDroid struct {
	Robot      string              `yaml:"robot"`
	Categories map[string][]string `yaml:"categories"`
}

type file struct {
	Droids map[string]fileDroid `yaml:"droids"`
	Sounds [][]string           `yaml:"sounds"`
}

// Droid is one droid's animation table.
type Droid struct {
	Name       string
	Robot      core.RobotType
	categories map[string]map[string]struct{}
}

// AnimationKey identifies a playable animation. An empty Name plays the
// category; an empty Category plays the droid.
type AnimationKey struct {
	Droid    string
	Robot    core.RobotType
	Category string
	Name     string
}

func (k AnimationKey) String() string {
	parts := []string{k.Droid}
	if k.Category != "" {
		parts = append(parts, k.Category)
	}
	if k.Name != "" {
		parts = append(parts, k.Name)
	}
	return strings.Join(parts, "/")
}

// SoundKey identifies a playable sound. The empty path is the default sound.
type SoundKey struct {
	Path []string
}

func (k SoundKey) String() string {
	return strings.Join(k.Path, ".")
}

// Catalog is an immutable lookup table.
type Catalog struct {
	droids map[string]*Droid
	sounds map[string][]string
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(defaultCatalog)
	})
	return defaultCat, defaultErr
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(b)
}

// Parse decodes a YAML catalog.
func Parse(b []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := &Catalog{
		droids: make(map[string]*Droid, len(f.Droids)),
		sounds: make(map[string][]string, len(f.Sounds)),
	}
	for name, fd := range f.Droids {
		robot, err := core.ParseRobotType(fd.Robot)
		if err != nil {
			return nil, fmt.Errorf("droid %q: %w", name, err)
		}
		d := &Droid{Name: name, Robot: robot, categories: make(map[string]map[string]struct{}, len(fd.Categories))}
		for cat, names := range fd.Categories {
			set := make(map[string]struct{}, len(names))
			for _, n := range names {
				set[n] = struct{}{}
			}
			d.categories[cat] = set
		}
		c.droids[name] = d
	}
	for _, p := range f.Sounds {
		if len(p) == 0 {
			return nil, fmt.Errorf("empty sound path")
		}
		c.sounds[soundID(p)] = append([]string(nil), p...)
	}
	return c, nil
}

func soundID(path []string) string {
	return strings.Join(path, "\x00")
}

// Droid resolves a droid-level key.
func (c *Catalog) Droid(droid string) (AnimationKey, error) {
	d, ok := c.droids[droid]
	if !ok {
		return AnimationKey{}, fmt.Errorf("%w: droid %q", core.ErrUnknownAnimation, droid)
	}
	return AnimationKey{Droid: d.Name, Robot: d.Robot}, nil
}

// Category resolves a category-level key.
func (c *Catalog) Category(droid, category string) (AnimationKey, error) {
	key, err := c.Droid(droid)
	if err != nil {
		return AnimationKey{}, err
	}
	if _, ok := c.droids[droid].categories[category]; !ok {
		return AnimationKey{}, fmt.Errorf("%w: %s has no category %q", core.ErrUnknownAnimation, droid, category)
	}
	key.Category = category
	return key, nil
}

// Animation resolves a droid, category and animation name.
func (c *Catalog) Animation(droid, category, name string) (AnimationKey, error) {
	key, err := c.Category(droid, category)
	if err != nil {
		return AnimationKey{}, err
	}
	if _, ok := c.droids[droid].categories[category][name]; !ok {
		return AnimationKey{}, fmt.Errorf("%w: %s/%s has no animation %q", core.ErrUnknownAnimation, droid, category, name)
	}
	key.Name = name
	return key, nil
}

// Sound resolves a sound path such as ("Game", "Coin"). No path resolves the
// default sound.
func (c *Catalog) Sound(path ...string) (SoundKey, error) {
	if len(path) == 0 {
		return SoundKey{}, nil
	}
	p, ok := c.sounds[soundID(path)]
	if !ok {
		return SoundKey{}, fmt.Errorf("%w: %q", core.ErrUnknownSound, strings.Join(path, "."))
	}
	return SoundKey{Path: p}, nil
}

// Droids returns the droid names in sorted order.
func (c *Catalog) Droids() []string {
	out := make([]string, 0, len(c.droids))
	for name := range c.droids {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Categories returns the categories of droid in sorted order.
func (c *Catalog) Categories(droid string) []string {
	d, ok := c.droids[droid]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(d.categories))
	for cat := range d.categories {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// Animations returns the animation names of a droid category in sorted order.
func (c *Catalog) Animations(droid, category string) []string {
	d, ok := c.droids[droid]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(d.categories[category]))
	for name := range d.categories[category] {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Sounds returns every sound path, sorted by dotted name.
func (c *Catalog) Sounds() [][]string {
	out := make([][]string, 0, len(c.sounds))
	for _, p := range c.sounds {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Join(out[i], ".") < strings.Join(out[j], ".")
	})
	return out
}

// DroidFor returns the catalog droid name for a robot type.
func (c *Catalog) DroidFor(robot core.RobotType) (string, bool) {
	for _, name := range c.Droids() {
		if c.droids[name].Robot == robot {
			return name, true
		}
	}
	return "", false
}
