package service

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SeedIngredients is the kitchen stock a new session starts with.
var SeedIngredients = []string{
	"chicken breast",
	"tomatoes",
	"garlic",
	"olive oil",
	"pasta",
	"parmesan cheese",
	"onion",
	"bell pepper",
	"rice",
	"eggs",
}

// NormalizeIngredient trims and lower-cases an ingredient name.
func NormalizeIngredient(raw string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(raw))
}

// Inventory holds the kitchen stock and the ingredients selected for the next generation.
// Items are kept sorted; the selection keeps the order in which ingredients were picked.
type Inventory struct {
	mu       sync.RWMutex
	items    []string
	selected []string
}

// NewInventory creates an inventory holding the normalized seed ingredients.
func NewInventory(seed []string) *Inventory {
	inv := &Inventory{items: []string{}, selected: []string{}}
	for _, s := range seed {
		inv.addLocked(NormalizeIngredient(s))
	}
	return inv
}

// AddIngredient adds raw after normalization. Empty and already present ingredients
// are ignored. It reports whether the inventory changed.
func (i *Inventory) AddIngredient(raw string) bool {
	name := NormalizeIngredient(raw)

	i.mu.Lock()
	defer i.mu.Unlock()
	return i.addLocked(name)
}

func (i *Inventory) addLocked(name string) bool {
	if name == "" || slices.Contains(i.items, name) {
		return false
	}
	i.items = append(i.items, name)
	sort.Strings(i.items)
	return true
}

// RemoveIngredient removes name from both the inventory and the selection.
func (i *Inventory) RemoveIngredient(name string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	before := len(i.items) + len(i.selected)
	i.items = slices.DeleteFunc(i.items, func(s string) bool { return s == name })
	i.selected = slices.DeleteFunc(i.selected, func(s string) bool { return s == name })
	return len(i.items)+len(i.selected) != before
}

// ToggleSelection deselects name if it is selected and appends it to the selection otherwise.
// It reports whether name is selected afterwards.
func (i *Inventory) ToggleSelection(name string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if slices.Contains(i.selected, name) {
		i.selected = slices.DeleteFunc(i.selected, func(s string) bool { return s == name })
		return false
	}
	i.selected = append(i.selected, name)
	return true
}

func (i *Inventory) ClearSelection() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.selected = []string{}
}

func (i *Inventory) Items() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.items)
}

func (i *Inventory) Selected() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.selected)
}

func (i *Inventory) IsSelected(name string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Contains(i.selected, name)
}
