package models

import "sort"

// Cart maps product id to a positive quantity.
type Cart map[int64]int

func (c Cart) Add(productID int64, qty int) {
	if qty <= 0 {
		return
	}
	c[productID] += qty
}

// Set stores qty for productID; zero or less removes the entry.
func (c Cart) Set(productID int64, qty int) {
	if qty <= 0 {
		delete(c, productID)
		return
	}
	c[productID] = qty
}

func (c Cart) Remove(productID int64) bool {
	if _, ok := c[productID]; !ok {
		return false
	}
	delete(c, productID)
	return true
}

func (c Cart) Empty() bool {
	return len(c) == 0
}

// IDs returns the product ids in ascending order.
func (c Cart) IDs() []int64 {
	ids := make([]int64, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for id, qty := range c {
		out[id] = qty
	}
	return out
}
