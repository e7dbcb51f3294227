package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/avretry/retrier"
)

// Profile is a named retry setting.
type Profile struct {
	// Name identifies the profile and labels metrics for runs using it.
	Name string `yaml:"name"`

	// Attempts is the maximum number of work invocations.
	// Zero or negative means the package default.
	Attempts int `yaml:"attempts"`

	// Delay is the fixed wait between attempts. When omitted, the
	// package default applies; an explicit "0s" disables the delay.
	Delay *Duration `yaml:"delay"`
}

// File is the top-level structure of a profile file.
type File struct {
	Profiles []Profile `yaml:"profiles"`
}

// EffectiveAttempts returns the attempt limit with defaulting applied.
func (p Profile) EffectiveAttempts() int {
	if p.Attempts <= 0 {
		return retrier.DefaultAttempts
	}
	return p.Attempts
}

// EffectiveDelay returns the inter-attempt delay with defaulting applied.
func (p Profile) EffectiveDelay() time.Duration {
	if p.Delay == nil {
		return retrier.DefaultDelay
	}
	return p.Delay.Duration()
}

// Validate validates a single profile.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is empty")
	}
	if p.Delay != nil && p.Delay.Duration() < 0 {
		return fmt.Errorf("profile %q: delay must not be negative", p.Name)
	}
	return nil
}

// Validate validates the file: every profile must be valid and names
// must be unique.
func (f *File) Validate() error {
	if f == nil {
		return fmt.Errorf("profile file is nil")
	}
	seen := make(map[string]struct{}, len(f.Profiles))
	for _, p := range f.Profiles {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, ok := seen[p.Name]; ok {
			return fmt.Errorf("duplicate profile name: %s", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// Lookup returns the profile with the given name.
func (f *File) Lookup(name string) (Profile, bool) {
	if f == nil {
		return Profile{}, false
	}
	for _, p := range f.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// Load loads and parses a profile file from the specified path.
func Load(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("profile file path is empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("profile file does not exist: %s", path)
		}
		return nil, fmt.Errorf("failed to stat profile file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("profile path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse profile file: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}

	return &f, nil
}

// Save writes the profiles to a YAML file. This is useful for generating
// sample profile files.
func Save(f *File, path string) error {
	if f == nil {
		return fmt.Errorf("profile file is nil")
	}
	if path == "" {
		return fmt.Errorf("path is empty")
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	// Profile files need to be readable by other processes.
	if err := os.WriteFile(filepath.Clean(path), data, 0o644); err != nil { //nolint:gosec // config files need broader read permissions
		return fmt.Errorf("failed to write profile file: %w", err)
	}

	return nil
}

// Default returns a File with a single default profile.
func Default() *File {
	delay := Duration(retrier.DefaultDelay)
	return &File{
		Profiles: []Profile{
			{
				Name:     "default",
				Attempts: retrier.DefaultAttempts,
				Delay:    &delay,
			},
		},
	}
}

// Configure applies the profile to a retrier configuration. The retrier
// keeps its work callable, parameters, handler and logger; the profile
// supplies the name, attempt limit and delay.
func Configure[P, R any](p Profile, cfg retrier.Config[P, R]) retrier.Config[P, R] {
	return cfg.
		WithName(p.Name).
		WithAttempts(p.EffectiveAttempts()).
		WithDelay(p.EffectiveDelay())
}
