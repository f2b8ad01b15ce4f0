package vst2

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	vst2sdk "github.com/dudk/vst2"

	"github.com/dudk/pedal/log"
)

// Cache represents list of loaded vst2 libraries found in scan paths.
type Cache struct {
	Paths []string
	Libs  Libraries
}

// Libraries represent vst2 libs grouped by their path.
type Libraries map[string][]*vst2sdk.Library

var (
	defaultScanPaths = getDefaultScanPaths()
	ext              = getExt()
	logger           = log.GetLogger()
)

// NewCache returns a cache of vst2 libraries found in default and
// provided paths.
func NewCache(paths ...string) *Cache {
	cache := Cache{}
	cache.Paths = uniquePaths(append(defaultScanPaths, paths...))
	cache.Load()
	return &cache
}

// Load vst2 libraries from defined paths.
func (c *Cache) Load() {
	c.Libs = make(map[string][]*vst2sdk.Library)
	for _, path := range c.Paths {
		c.Libs[path] = make([]*vst2sdk.Library, 0)
		err := filepath.Walk(path, c.loadLibs())
		if err != nil {
			logger.Info(err)
		}
	}
}

// Close unloads all loaded libs.
func (c *Cache) Close() {
	for _, libs := range c.Libs {
		for _, lib := range libs {
			lib.Close()
		}
	}
}

func (c *Cache) loadLibs() filepath.WalkFunc {
	return func(path string, file os.FileInfo, err error) error {
		if err != nil {
			logger.Info(err)
			return nil
		}
		if strings.HasSuffix(file.Name(), ext) {
			library, err := vst2sdk.Open(path)
			if err != nil {
				return err
			}
			dir := filepath.Dir(path)
			c.Libs[dir] = append(c.Libs[dir], library)
		}
		return nil
	}
}

// LoadPlugin opens a plugin of provided name from a scanned path and
// wraps it into the pedal.Plugin adapter.
func (c *Cache) LoadPlugin(path string, name string, options ...Option) (*Plugin, error) {
	if len(c.Libs) == 0 {
		return nil, fmt.Errorf("no plugins are found in folders %v", c.Paths)
	}
	libs, ok := c.Libs[path]
	if !ok {
		return nil, fmt.Errorf("path %v was not scanned", path)
	}
	for _, lib := range libs {
		if lib.Name == name {
			plugin, err := lib.Open()
			if err != nil {
				return nil, err
			}
			return NewPlugin(name, plugin, options...), nil
		}
	}
	return nil, fmt.Errorf("plugin %v not found at %v", name, path)
}

// Find searches all scanned paths for a plugin with provided name.
func (c *Cache) Find(name string, options ...Option) (*Plugin, error) {
	for path := range c.Libs {
		if p, err := c.LoadPlugin(path, name, options...); err == nil {
			return p, nil
		}
	}
	return nil, fmt.Errorf("plugin %v not found in %v", name, c.Paths)
}

func getDefaultScanPaths() (paths []string) {
	switch goos := runtime.GOOS; goos {
	case "darwin":
		paths = []string{
			"~/Library/Audio/Plug-Ins/VST",
			"/Library/Audio/Plug-Ins/VST",
		}
	case "windows":
		paths = []string{
			"C:\\Program Files (x86)\\Steinberg\\VSTPlugins",
			"C:\\Program Files\\Steinberg\\VSTPlugins",
		}
	}
	if envVstPath := os.Getenv("VST_PATH"); len(envVstPath) > 0 {
		paths = append(paths, envVstPath)
	}
	return
}

func getExt() string {
	switch os := runtime.GOOS; os {
	case "darwin":
		return ".vst"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}

func uniquePaths(stringSlice []string) []string {
	u := make([]string, 0, len(stringSlice))
	m := make(map[string]bool)
	for _, val := range stringSlice {
		if _, ok := m[val]; !ok {
			m[val] = true
			u = append(u, val)
		}
	}
	return u
}

func (c Cache) String() string {
	var buf bytes.Buffer
	buf.WriteString("Scan paths:\n")
	for _, path := range c.Paths {
		buf.WriteString(fmt.Sprintf("\t%v\n", path))
	}
	buf.WriteString("Available plugins:\n")
	buf.WriteString(fmt.Sprintf("%v", c.Libs))
	return buf.String()
}

func (libraries Libraries) String() string {
	var buf bytes.Buffer
	for path, libs := range libraries {
		buf.WriteString(fmt.Sprintf("\t%v\n", path))
		if len(libs) == 0 {
			buf.WriteString("\t\t[No plugins found]\n")
		}
		for _, lib := range libs {
			buf.WriteString(fmt.Sprintf("\t\t%v\n", lib.Name))
		}
	}
	return buf.String()
}
