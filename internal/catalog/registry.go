package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed rewards.yaml
var defaultCatalog []byte

type Reward struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Cost        int    `yaml:"cost" json:"cost"`
	Icon        string `yaml:"icon" json:"icon"`
	Category    string `yaml:"category" json:"category"`
}

type Category struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
}

type File struct {
	Categories []Category `yaml:"categories"`
	Rewards    []Reward   `yaml:"rewards"`
}

// Registry holds the reward catalogue. Order of categories and rewards is the
// order of the source file.
type Registry struct {
	mu         sync.RWMutex
	categories []Category
	rewards    []*Reward
	byID       map[string]*Reward
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Reward)}
}

// Load reads the catalogue at path, or the embedded default when path is empty.
func Load(path string) (*Registry, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read rewards catalogue: %w", err)
		}
		data = b
	}
	return Parse(data)
}

func Parse(data []byte) (*Registry, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rewards catalogue: %w", err)
	}

	known := make(map[string]bool, len(file.Categories))
	for _, c := range file.Categories {
		known[c.ID] = true
	}

	registry := NewRegistry()
	registry.categories = file.Categories
	for i := range file.Rewards {
		r := &file.Rewards[i]
		if r.ID == "" {
			return nil, errors.New("reward without id")
		}
		if r.Cost <= 0 {
			return nil, fmt.Errorf("reward %s: cost must be positive", r.ID)
		}
		if !known[r.Category] {
			return nil, fmt.Errorf("reward %s: unknown category %q", r.ID, r.Category)
		}
		registry.Register(r)
	}
	return registry, nil
}

func (r *Registry) Register(reward *Reward) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[reward.ID]; !exists {
		r.rewards = append(r.rewards, reward)
	}
	r.byID[reward.ID] = reward
}

func (r *Registry) Get(id string) (Reward, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reward, ok := r.byID[id]
	if !ok {
		return Reward{}, false
	}
	return *reward, true
}

func (r *Registry) All() []Reward {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Reward, 0, len(r.rewards))
	for _, reward := range r.rewards {
		result = append(result, *r.byID[reward.ID])
	}
	return result
}

func (r *Registry) Categories() []Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Category(nil), r.categories...)
}
