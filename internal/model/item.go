package model

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInventoryFull is returned when an inventory cannot hold more items.
var ErrInventoryFull = errors.New("inventory full")

// Item is a single item instance in the world, e.g. a rune in a backpack.
// Charges are only meaningful for charged items.
type Item struct {
	mu      sync.Mutex
	id      int32
	count   int32
	charges int32
}

// NewItem creates an item stack.
func NewItem(id, count int32) *Item {
	return &Item{id: id, count: count}
}

// NewChargedItem creates a single item with the given number of charges.
func NewChargedItem(id, charges int32) *Item {
	return &Item{id: id, count: 1, charges: charges}
}

// ID returns the item type identifier.
func (i *Item) ID() int32 { return i.id }

// Count returns the stack size.
func (i *Item) Count() int32 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.count
}

// Charges returns the remaining charges.
func (i *Item) Charges() int32 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.charges
}

// UseCharge removes one charge. Returns false if none are left.
func (i *Item) UseCharge() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.charges <= 0 {
		return false
	}
	i.charges--
	return true
}

// Inventory counts carried items by type.
// Capacity limits the total number of carried units (0 = unlimited).
//
// Thread-safe: all methods are protected by sync.RWMutex.
type Inventory struct {
	mu       sync.RWMutex
	items    map[int32]int32
	total    int32
	capacity int32
}

// NewInventory creates an empty inventory.
func NewInventory(capacity int32) *Inventory {
	return &Inventory{
		items:    make(map[int32]int32),
		capacity: capacity,
	}
}

// SetCapacity changes the unit limit. Carried items are kept even if they exceed it.
func (inv *Inventory) SetCapacity(capacity int32) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.capacity = capacity
}

// Count returns how many units of itemID are carried.
func (inv *Inventory) Count(itemID int32) int32 {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.items[itemID]
}

// CanAdd reports whether count units fit into the inventory.
func (inv *Inventory) CanAdd(count int32) bool {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.capacity == 0 || inv.total+count <= inv.capacity
}

// Add stores count units of itemID.
func (inv *Inventory) Add(itemID, count int32) error {
	if count <= 0 {
		return fmt.Errorf("adding item %d: invalid count %d", itemID, count)
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if inv.capacity > 0 && inv.total+count > inv.capacity {
		return fmt.Errorf("adding %d x item %d: %w", count, itemID, ErrInventoryFull)
	}
	inv.items[itemID] += count
	inv.total += count
	return nil
}

// Remove takes count units of itemID. Returns false and changes nothing
// if fewer are carried.
func (inv *Inventory) Remove(itemID, count int32) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	have := inv.items[itemID]
	if count <= 0 || have < count {
		return false
	}
	if have == count {
		delete(inv.items, itemID)
	} else {
		inv.items[itemID] = have - count
	}
	inv.total -= count
	return true
}
