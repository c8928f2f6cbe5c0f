package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Write stores the scene as YAML.
func Write(s *Scene, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Read loads a scene from a YAML file. Structural validation happens in Build.
func Read(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
	}
	return &s, nil
}

// Load reads path, or returns the reference scene when path is empty.
func Load(path string) (*Scene, error) {
	if path == "" {
		return Reference(), nil
	}
	return Read(path)
}
