package config

import (
	"os"
	"path/filepath"
)

const (
	appName       = "chardiff"
	globalFile    = "config.yaml"
	LocalFileName = ".chardiff.yaml"
)

// Stack layers config files: local settings override global ones.
type Stack struct {
	configs map[string]*Config
	order   []string
}

// NewStack layers the user's global config under the local one: the nearest
// .chardiff.yaml in dir or one of its parents, or dir/.chardiff.yaml when there
// is none. The global layer is left out when the user config directory cannot
// be determined.
func NewStack(dir string) *Stack {
	global := ""
	if configDir, err := os.UserConfigDir(); err == nil {
		global = filepath.Join(configDir, appName, globalFile)
	}
	return NewStackFiles(global, FindLocal(dir))
}

// FindLocal returns the path of the local config file that applies to dir.
func FindLocal(dir string) string {
	for _, d := range ascend(filepath.Clean(dir)) {
		path := filepath.Join(d, LocalFileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return filepath.Join(dir, LocalFileName)
}

// ascend lists path and each of its parents, nearest first.
func ascend(path string) []string {
	var dirs []string
	for {
		dirs = append(dirs, path)
		parent := filepath.Dir(path)
		if parent == path || parent == "." {
			break
		}
		path = parent
	}
	return dirs
}

// NewStackFiles layers the given files. An empty path is skipped.
func NewStackFiles(global, local string) *Stack {
	s := &Stack{configs: map[string]*Config{}}
	for _, layer := range []struct{ name, path string }{{"global", global}, {"local", local}} {
		if layer.path == "" {
			continue
		}
		s.configs[layer.name] = NewConfig(layer.path)
		s.order = append(s.order, layer.name)
	}
	return s
}

// StackFile returns the named layer of stack, or a standalone config at name.
func StackFile(name string, stack *Stack) *Config {
	if config, ok := stack.configs[name]; ok {
		return config
	}
	return NewConfig(name)
}

// Layer returns the named layer, and false when the stack has none by that
// name.
func (s *Stack) Layer(name string) (*Config, bool) {
	config, ok := s.configs[name]
	return config, ok
}

// Settings merges every layer, lowest first.
func (s *Stack) Settings() (Settings, error) {
	var merged Settings
	for _, name := range s.order {
		settings, err := s.configs[name].Settings()
		if err != nil {
			return Settings{}, err
		}
		merged = merged.Merge(settings)
	}
	return merged, nil
}
