package item

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no carried item matches a name.
var ErrNotFound = errors.New("item not found")

// Inventory is an ordered sequence of items. Equipped items remain in the
// inventory; equipment slots reference them by identity.
type Inventory struct {
	items []Item
}

// NewInventory creates an Inventory holding the given items.
func NewInventory(items ...Item) *Inventory {
	inv := &Inventory{}
	inv.items = append(inv.items, items...)
	return inv
}

// Add appends it to the inventory.
//
// Precondition: it must be non-nil.
func (inv *Inventory) Add(it Item) {
	inv.items = append(inv.items, it)
}

// Remove removes the first item matching name and returns it.
//
// Postcondition: on success the item is no longer carried; otherwise the
// inventory is unchanged and the error wraps ErrNotFound.
func (inv *Inventory) Remove(name string) (Item, error) {
	for i, it := range inv.items {
		if matches(it, name) {
			inv.items = append(inv.items[:i], inv.items[i+1:]...)
			return it, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// RemoveItem removes the exact item (by identity), if carried.
func (inv *Inventory) RemoveItem(target Item) bool {
	for i, it := range inv.items {
		if it == target {
			inv.items = append(inv.items[:i], inv.items[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the first item matching name.
func (inv *Inventory) Find(name string) (Item, bool) {
	for _, it := range inv.items {
		if matches(it, name) {
			return it, true
		}
	}
	return nil, false
}

// Contains reports whether the exact item (by identity) is carried.
func (inv *Inventory) Contains(target Item) bool {
	for _, it := range inv.items {
		if it == target {
			return true
		}
	}
	return false
}

// Items returns a snapshot copy of the carried items in order.
func (inv *Inventory) Items() []Item {
	out := make([]Item, len(inv.items))
	copy(out, inv.items)
	return out
}

// Len returns the number of carried items.
func (inv *Inventory) Len() int { return len(inv.items) }

// TotalWeight returns the cumulative weight of all carried items in
// gold-piece units.
//
// Postcondition: equals the sum of ItemWeight over all items.
func (inv *Inventory) TotalWeight() int {
	total := 0
	for _, it := range inv.items {
		total += it.ItemWeight()
	}
	return total
}

// matches reports whether the item's name matches the query, first exactly
// (case-insensitive), then by substring.
func matches(it Item, name string) bool {
	have := strings.ToLower(it.ItemName())
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return false
	}
	return have == want || strings.Contains(have, want)
}

// MarshalJSON writes the inventory as an array of tagged item envelopes.
func (inv *Inventory) MarshalJSON() ([]byte, error) {
	return MarshalList(inv.items)
}

// UnmarshalJSON reads an array of tagged item envelopes.
func (inv *Inventory) UnmarshalJSON(data []byte) error {
	items, err := UnmarshalList(data)
	if err != nil {
		return err
	}
	inv.items = items
	return nil
}

// Equipment references the items a character has readied. Every referenced
// item also remains in the owning inventory.
type Equipment struct {
	Weapon *Weapon
	Armor  *Armor
	Shield *Shield
	Light  *LightSource
}

// equipmentDoc is the serialized form: slots reference items by name, since
// the items themselves are persisted inside the inventory.
type equipmentDoc struct {
	Weapon string `json:"weapon,omitempty"`
	Armor  string `json:"armor,omitempty"`
	Shield string `json:"shield,omitempty"`
	Light  string `json:"light,omitempty"`
}

// MarshalJSON writes equipment slots as item-name references.
func (e Equipment) MarshalJSON() ([]byte, error) {
	doc := equipmentDoc{}
	if e.Weapon != nil {
		doc.Weapon = e.Weapon.Name
	}
	if e.Armor != nil {
		doc.Armor = e.Armor.Name
	}
	if e.Shield != nil {
		doc.Shield = e.Shield.Name
	}
	if e.Light != nil {
		doc.Light = e.Light.Name
	}
	return json.Marshal(doc)
}

// Rebind resolves serialized slot references against the inventory. Slots
// naming items that are no longer carried are cleared.
//
// Postcondition: every non-nil slot references an item present in inv.
func (e *Equipment) Rebind(doc map[string]string, inv *Inventory) {
	e.Weapon, e.Armor, e.Shield, e.Light = nil, nil, nil, nil
	if name := doc["weapon"]; name != "" {
		if it, ok := inv.Find(name); ok {
			if w, ok := it.(*Weapon); ok {
				e.Weapon = w
			}
		}
	}
	if name := doc["armor"]; name != "" {
		if it, ok := inv.Find(name); ok {
			if a, ok := it.(*Armor); ok {
				e.Armor = a
			}
		}
	}
	if name := doc["shield"]; name != "" {
		if it, ok := inv.Find(name); ok {
			if s, ok := it.(*Shield); ok {
				e.Shield = s
			}
		}
	}
	if name := doc["light"]; name != "" {
		if it, ok := inv.Find(name); ok {
			if l, ok := it.(*LightSource); ok {
				e.Light = l
			}
		}
	}
}

// UnmarshalJSON reads the name references; call Rebind afterwards to resolve
// them against the owning inventory.
func (e *Equipment) UnmarshalJSON(data []byte) error {
	var doc equipmentDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	// Stash names in placeholder values; Rebind replaces them.
	e.Weapon, e.Armor, e.Shield, e.Light = nil, nil, nil, nil
	if doc.Weapon != "" {
		e.Weapon = &Weapon{Base: Base{Name: doc.Weapon}}
	}
	if doc.Armor != "" {
		e.Armor = &Armor{Base: Base{Name: doc.Armor}}
	}
	if doc.Shield != "" {
		e.Shield = &Shield{Base: Base{Name: doc.Shield}}
	}
	if doc.Light != "" {
		e.Light = &LightSource{Base: Base{Name: doc.Light}}
	}
	return nil
}

// RebindTo resolves any placeholder slot values produced by UnmarshalJSON
// against the inventory.
func (e *Equipment) RebindTo(inv *Inventory) {
	doc := map[string]string{}
	if e.Weapon != nil {
		doc["weapon"] = e.Weapon.Name
	}
	if e.Armor != nil {
		doc["armor"] = e.Armor.Name
	}
	if e.Shield != nil {
		doc["shield"] = e.Shield.Name
	}
	if e.Light != nil {
		doc["light"] = e.Light.Name
	}
	e.Rebind(doc, inv)
}
