package analyzer

import (
	"fmt"
	"image/color"
	"os"

	"gopkg.in/yaml.v3"
)

// ChannelRange is an inclusive range over one 8-bit color channel.
type ChannelRange struct {
	Lo uint8 `yaml:"lo" json:"lo"`
	Hi uint8 `yaml:"hi" json:"hi"`
}

func (r ChannelRange) contains(v uint8) bool {
	return v >= r.Lo && v <= r.Hi
}

// ColorProfile classifies a pixel as belonging to a plotted line of a given
// color. All three channel checks use closed intervals, so boundary values
// match.
type ColorProfile struct {
	Name string       `yaml:"name" json:"name"`
	R    ChannelRange `yaml:"r" json:"r"`
	G    ChannelRange `yaml:"g" json:"g"`
	B    ChannelRange `yaml:"b" json:"b"`
}

// Matches reports whether the pixel falls inside the profile's RGB ranges.
func (p ColorProfile) Matches(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return p.R.contains(uint8(r>>8)) && p.G.contains(uint8(g>>8)) && p.B.contains(uint8(b>>8))
}

// ProfileRegistry is an ordered list of color profiles. Order matters:
// dominant-color ties break toward the first-declared profile.
type ProfileRegistry struct {
	profiles []ColorProfile
}

// NewProfileRegistry builds a registry preserving declaration order.
func NewProfileRegistry(profiles []ColorProfile) (*ProfileRegistry, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("profile registry cannot be empty")
	}
	seen := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("profile with empty name")
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate profile name: %q", p.Name)
		}
		seen[p.Name] = true
	}
	return &ProfileRegistry{profiles: profiles}, nil
}

// DefaultRegistry returns the built-in registry covering the line colors
// commonly seen on price charts.
func DefaultRegistry() *ProfileRegistry {
	return &ProfileRegistry{profiles: []ColorProfile{
		{Name: "blue", R: ChannelRange{0, 100}, G: ChannelRange{0, 100}, B: ChannelRange{150, 255}},
		{Name: "red", R: ChannelRange{150, 255}, G: ChannelRange{0, 100}, B: ChannelRange{0, 100}},
		{Name: "green", R: ChannelRange{0, 100}, G: ChannelRange{150, 255}, B: ChannelRange{0, 100}},
		{Name: "black", R: ChannelRange{0, 60}, G: ChannelRange{0, 60}, B: ChannelRange{0, 60}},
	}}
}

// Profiles returns the profiles in declaration order.
func (r *ProfileRegistry) Profiles() []ColorProfile {
	return r.profiles
}

// Lookup finds a profile by name.
func (r *ProfileRegistry) Lookup(name string) (ColorProfile, bool) {
	for _, p := range r.profiles {
		if p.Name == name {
			return p, true
		}
	}
	return ColorProfile{}, false
}

// First returns the first-declared profile.
func (r *ProfileRegistry) First() ColorProfile {
	return r.profiles[0]
}

type registryFile struct {
	Profiles []ColorProfile `yaml:"profiles"`
}

// LoadRegistry reads an ordered profile registry from a YAML file.
func LoadRegistry(path string) (*ProfileRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile registry: %w", err)
	}
	var rf registryFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse profile registry: %w", err)
	}
	return NewProfileRegistry(rf.Profiles)
}
