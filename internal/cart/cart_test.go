package cart

import (
	"testing"

	"github.com/google/uuid"
)

func TestAddIsIdempotent(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	c := New().Add(productID)
	if c.Qty(productID) != 1 {
		t.Fatalf("qty = %d, want 1", c.Qty(productID))
	}

	// A second add must not touch the line, even after the quantity changed.
	c = c.AdjustQuantity(productID, 4)
	c = c.Add(productID)
	if c.Qty(productID) != 5 {
		t.Errorf("qty after re-add = %d, want 5", c.Qty(productID))
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}

func TestAdjustQuantityFloorsAtOne(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	c := New().Add(productID)

	c = c.AdjustQuantity(productID, 2)
	if c.Qty(productID) != 3 {
		t.Errorf("qty after +2 = %d, want 3", c.Qty(productID))
	}

	// A huge negative delta clamps to one, it never removes the line.
	c = c.AdjustQuantity(productID, -1000)
	if c.Qty(productID) != 1 {
		t.Errorf("qty after -1000 = %d, want 1", c.Qty(productID))
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}

	c = c.AdjustQuantity(productID, 11)
	if c.Qty(productID) != 12 {
		t.Errorf("qty after +11 = %d, want 12", c.Qty(productID))
	}
}

func TestAdjustQuantityAbsentProductIsNoOp(t *testing.T) {
	t.Parallel()

	c := New().Add(uuid.New())
	before := c.Lines()

	c = c.AdjustQuantity(uuid.New(), 7)
	after := c.Lines()
	if len(after) != len(before) {
		t.Fatalf("len changed: %d -> %d", len(before), len(after))
	}
	if after[0] != before[0] {
		t.Errorf("line changed: %v -> %v", before[0], after[0])
	}
}

func TestRemoveAbsentProductIsNoOp(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	c := New().Add(productID)

	c = c.Remove(uuid.New())
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}

	c = c.Remove(productID)
	if !c.IsEmpty() {
		t.Error("expected empty cart after removing the only line")
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	c := New().Add(uuid.New()).Add(uuid.New())
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
	if !c.Clear().IsEmpty() {
		t.Error("expected empty cart after clear")
	}
}

func TestOperationsDoNotMutateReceiver(t *testing.T) {
	t.Parallel()

	first := uuid.New()
	second := uuid.New()
	base := New().Add(first)

	_ = base.Add(second)
	_ = base.AdjustQuantity(first, 9)
	_ = base.Remove(first)

	if base.Len() != 1 {
		t.Fatalf("base len = %d, want 1", base.Len())
	}
	if base.Qty(first) != 1 {
		t.Errorf("base qty = %d, want 1", base.Qty(first))
	}
}

func TestLinesPreserveInsertionOrder(t *testing.T) {
	t.Parallel()

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	c := New()
	for _, id := range ids {
		c = c.Add(id)
	}
	c = c.Remove(ids[1])

	lines := c.Lines()
	if len(lines) != 2 {
		t.Fatalf("len = %d, want 2", len(lines))
	}
	if lines[0].ProductID != ids[0] || lines[1].ProductID != ids[2] {
		t.Errorf("order not preserved: %v", lines)
	}
}

func TestFromLinesClampsQuantities(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	c := FromLines([]Line{
		{ProductID: productID, Qty: 0},
		{ProductID: uuid.Nil, Qty: 3},
	})
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
	if c.Qty(productID) != 1 {
		t.Errorf("qty = %d, want 1", c.Qty(productID))
	}
}
