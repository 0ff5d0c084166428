package item

import (
	"encoding/json"
	"fmt"
)

// Marshal serializes an item as a tagged JSON envelope: the variant's fields
// plus a "kind" discriminator.
//
// Precondition: it must be non-nil.
// Postcondition: Unmarshal(Marshal(it)) is semantically equal to it.
func Marshal(it Item) ([]byte, error) {
	raw, err := json.Marshal(it)
	if err != nil {
		return nil, fmt.Errorf("marshalling item %q: %w", it.ItemName(), err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("re-reading item %q: %w", it.ItemName(), err)
	}
	kind, err := json.Marshal(it.Kind())
	if err != nil {
		return nil, err
	}
	fields["kind"] = kind
	return json.Marshal(fields)
}

// Unmarshal reads a tagged item envelope back into its concrete variant.
//
// Postcondition: Returns a non-nil Item of the concrete type named by the
// "kind" field, or an error for an unknown kind.
func Unmarshal(data []byte) (Item, error) {
	var probe struct {
		Kind Kind `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("reading item kind: %w", err)
	}

	var it Item
	switch probe.Kind {
	case KindGear:
		it = &Gear{}
	case KindWeapon:
		it = &Weapon{}
	case KindArmor:
		it = &Armor{}
	case KindShield:
		it = &Shield{}
	case KindLightSource:
		it = &LightSource{}
	case KindPotion:
		it = &Potion{}
	case KindScroll:
		it = &Scroll{}
	case KindRing:
		it = &Ring{}
	case KindWand:
		it = &Wand{}
	case KindStaff:
		it = &Staff{}
	case KindMiscMagic:
		it = &MiscMagic{}
	default:
		return nil, fmt.Errorf("unknown item kind %q", probe.Kind)
	}
	if err := json.Unmarshal(data, it); err != nil {
		return nil, fmt.Errorf("unmarshalling %s item: %w", probe.Kind, err)
	}
	return it, nil
}

// MarshalList serializes a slice of items as a JSON array of tagged envelopes.
func MarshalList(items []Item) ([]byte, error) {
	raws := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		raw, err := Marshal(it)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return json.Marshal(raws)
}

// UnmarshalList reads a JSON array of tagged envelopes.
func UnmarshalList(data []byte) ([]Item, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("reading item list: %w", err)
	}
	items := make([]Item, 0, len(raws))
	for _, raw := range raws {
		it, err := Unmarshal(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}
