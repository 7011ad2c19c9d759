package cart

import "foodorder/internal/domain"

// Cart holds the pending dish selections for one customer. All derivations
// are pure; a Cart is owned by a single caller and is not locked.
type Cart struct {
	Lines []domain.CartLine
}

func (c *Cart) CountFor(dishID int64) int {
	for _, line := range c.Lines {
		if line.DishID == dishID {
			return line.Count
		}
	}
	return 0
}

func (c *Cart) TotalCount() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Count
	}
	return total
}

// Update adjusts the line for dishID by delta. The first positive delta
// creates the line with an empty note; a resulting count <= 0 removes the
// line entirely.
func (c *Cart) Update(dishID int64, delta int) {
	for i := range c.Lines {
		if c.Lines[i].DishID == dishID {
			c.Lines[i].Count += delta
			if c.Lines[i].Count <= 0 {
				c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			}
			return
		}
	}
	if delta > 0 {
		c.Lines = append(c.Lines, domain.CartLine{DishID: dishID, Count: delta, Note: ""})
	}
}

func (c *Cart) Clear() {
	c.Lines = nil
}

// UpdateNote sets the note on an existing line; no-op when the line is absent.
func (c *Cart) UpdateNote(dishID int64, note string) {
	for i := range c.Lines {
		if c.Lines[i].DishID == dishID {
			c.Lines[i].Note = note
			return
		}
	}
}

// Remove drops the line for dishID, keeping the cart consistent with the
// catalog when a dish is deleted.
func (c *Cart) Remove(dishID int64) {
	for i := range c.Lines {
		if c.Lines[i].DishID == dishID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// DetailList joins each line with its dish from the catalog snapshot. Lines
// whose dish has been deleted get a placeholder record so the view never
// breaks; only lines with a positive count are returned.
func (c *Cart) DetailList(dishes []domain.Dish) []domain.CartDetail {
	byID := make(map[int64]domain.Dish, len(dishes))
	for _, dish := range dishes {
		byID[dish.ID] = dish
	}

	details := []domain.CartDetail{}
	for _, line := range c.Lines {
		if line.Count <= 0 {
			continue
		}
		dish, ok := byID[line.DishID]
		if !ok {
			dish = domain.Dish{Name: "unknown dish", Category: "unknown"}
		}
		details = append(details, domain.CartDetail{CartLine: line, Dish: dish})
	}
	return details
}

// GroupByCategory partitions dishes by category in a single pass, preserving
// catalog order within each group.
func GroupByCategory(dishes []domain.Dish) map[string][]domain.Dish {
	groups := make(map[string][]domain.Dish)
	for _, dish := range dishes {
		groups[dish.Category] = append(groups[dish.Category], dish)
	}
	return groups
}
