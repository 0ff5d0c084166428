package item_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tgibson/underdark/internal/game/item"
)

func longSword() *item.Weapon {
	return &item.Weapon{
		Base:        item.Base{Name: "Long Sword", Weight: 60},
		DamageSM:    "1d8",
		DamageL:     "1d12",
		SpeedFactor: 5,
	}
}

// TestWeapon_DamageDiceFor selects the damage die by defender size.
func TestWeapon_DamageDiceFor(t *testing.T) {
	w := longSword()
	assert.Equal(t, "1d8", w.DamageDiceFor("S"))
	assert.Equal(t, "1d8", w.DamageDiceFor("M"))
	assert.Equal(t, "1d12", w.DamageDiceFor("L"))

	// A weapon with no large-target die falls back to its standard die.
	w.DamageL = ""
	assert.Equal(t, "1d8", w.DamageDiceFor("L"))
}

// TestInventory_TotalWeight verifies cumulative weight equals the sum of
// item weights after every mutation.
func TestInventory_TotalWeight(t *testing.T) {
	inv := item.NewInventory()
	assert.Equal(t, 0, inv.TotalWeight())

	inv.Add(longSword())
	inv.Add(&item.Gear{Base: item.Base{Name: "Rope", Weight: 75}, Type: item.GearEquipment})
	assert.Equal(t, 135, inv.TotalWeight())

	_, err := inv.Remove("rope")
	require.NoError(t, err)
	assert.Equal(t, 60, inv.TotalWeight())
}

// TestInventory_WeightInvariant_Property checks the weight tautology under
// arbitrary add/remove sequences.
func TestInventory_WeightInvariant_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		inv := item.NewInventory()
		weights := rapid.SliceOfN(rapid.IntRange(0, 300), 1, 20).Draw(rt, "weights")
		sum := 0
		for i, w := range weights {
			inv.Add(&item.Gear{Base: item.Base{Name: string(rune('a' + i)), Weight: w}})
			sum += w
		}
		assert.Equal(rt, sum, inv.TotalWeight())

		removed, err := inv.Remove(string(rune('a')))
		require.NoError(rt, err)
		assert.Equal(rt, sum-removed.ItemWeight(), inv.TotalWeight())
	})
}

// TestInventory_FindMatching covers exact and substring matching.
func TestInventory_FindMatching(t *testing.T) {
	inv := item.NewInventory(longSword())

	_, ok := inv.Find("Long Sword")
	assert.True(t, ok)
	_, ok = inv.Find("sword")
	assert.True(t, ok)
	_, ok = inv.Find("")
	assert.False(t, ok)
	_, ok = inv.Find("axe")
	assert.False(t, ok)

	_, err := inv.Remove("axe")
	assert.ErrorIs(t, err, item.ErrNotFound)
}

// TestItem_RoundTrip serializes each variant through the tagged envelope and
// back.
func TestItem_RoundTrip(t *testing.T) {
	variants := []item.Item{
		&item.Gear{Base: item.Base{Name: "Iron Rations", Weight: 75}, Type: item.GearConsumable},
		longSword(),
		&item.Armor{Base: item.Base{Name: "Chain Mail", Weight: 300}, BaseAC: 5, WeightClass: item.ArmorHeavy},
		&item.Shield{Base: item.Base{Name: "Shield", Weight: 100}, ACBonus: 1},
		&item.LightSource{Base: item.Base{Name: "Torch", Weight: 25}, BurnTurns: 6, Radius: 30},
		&item.Potion{Base: item.Base{Name: "Potion of Healing", Weight: 25}, Effect: "heal", Power: "1d8"},
		&item.Scroll{Base: item.Base{Name: "Scroll of Sleep", Weight: 5}, Type: item.ScrollSpell, Payload: "Sleep"},
		&item.Ring{Base: item.Base{Name: "Ring of Protection +1", Weight: 1}, Effect: "protection", Continuous: true},
		&item.Wand{Base: item.Base{Name: "Wand of Magic Missiles", Weight: 10}, Effect: "magic_missile", Charges: 20},
		&item.Staff{Base: item.Base{Name: "Staff of Striking", Weight: 50}, Effect: "striking", Charges: 12},
		&item.MiscMagic{Base: item.Base{Name: "Bag of Holding", Weight: 150}, Type: "container"},
	}

	for _, v := range variants {
		t.Run(v.ItemName(), func(t *testing.T) {
			data, err := item.Marshal(v)
			require.NoError(t, err)

			back, err := item.Unmarshal(data)
			require.NoError(t, err)
			assert.Equal(t, v.Kind(), back.Kind())
			assert.Equal(t, v, back)
		})
	}
}

// TestUnmarshal_UnknownKind rejects unrecognized discriminators.
func TestUnmarshal_UnknownKind(t *testing.T) {
	_, err := item.Unmarshal([]byte(`{"kind":"artifact","name":"x"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artifact")
}

// TestEquipment_Rebind restores slot references by identity after a
// serialization round trip.
func TestEquipment_Rebind(t *testing.T) {
	sword := longSword()
	mail := &item.Armor{Base: item.Base{Name: "Chain Mail", Weight: 300}, BaseAC: 5, WeightClass: item.ArmorHeavy}
	inv := item.NewInventory(sword, mail)

	eq := item.Equipment{Weapon: sword, Armor: mail}
	data, err := eq.MarshalJSON()
	require.NoError(t, err)

	var back item.Equipment
	require.NoError(t, back.UnmarshalJSON(data))
	back.RebindTo(inv)

	assert.Same(t, sword, back.Weapon)
	assert.Same(t, mail, back.Armor)
	assert.Nil(t, back.Shield)
}
