// Package templates holds the starter models a new diagram can begin from.
package templates

import (
	"embed"
	"fmt"
	"sync"

	"github.com/c4-modeller/engine/internal/codec"
	"github.com/c4-modeller/engine/internal/diagram"
)

// Empty is the key of the blank model; unknown keys fall back to it.
const Empty = "empty"

var keys = []string{Empty, "flightOperations", "microservices", "layeredArchitecture"}

//go:embed data/*.json
var files embed.FS

var (
	loadOnce sync.Once
	loaded   map[string]diagram.Snapshot
)

func load() map[string]diagram.Snapshot {
	loadOnce.Do(func() {
		loaded = make(map[string]diagram.Snapshot, len(keys))
		for _, k := range keys {
			data, err := files.ReadFile("data/" + k + ".json")
			if err != nil {
				panic(fmt.Sprintf("templates: missing %s: %v", k, err))
			}
			s, err := codec.Deserialize(data)
			if err != nil {
				panic(fmt.Sprintf("templates: %s: %v", k, err))
			}
			loaded[k] = s
		}
	})
	return loaded
}

// Info names a template.
type Info struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Names lists the templates in display order.
func Names() []Info {
	all := load()
	out := make([]Info, 0, len(keys))
	for _, k := range keys {
		out = append(out, Info{Key: k, Name: all[k].Metadata.Name})
	}
	return out
}

// Has reports whether key names a template.
func Has(key string) bool {
	_, ok := load()[key]
	return ok
}

// Get returns a copy of the template stored under key, or of the empty
// template when there is none.
func Get(key string) diagram.Snapshot {
	all := load()
	s, ok := all[key]
	if !ok {
		s = all[Empty]
	}
	return s.Clone()
}
