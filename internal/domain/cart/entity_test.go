package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	paprika  = Product{ID: 1, Name: "Smoked Paprika", Price: 10000}
	sumac    = Product{ID: 2, Name: "Sumac", Price: 5000}
	cardamom = Product{ID: 3, Name: "Green Cardamom", Price: 25000}
)

func TestAddItemAppendsNewLine(t *testing.T) {
	c := New("session-1")

	c.AddItem(paprika, DefaultMaxQuantity)
	c.AddItem(sumac, DefaultMaxQuantity)

	assert.Len(t, c.Items, 2)
	assert.Equal(t, paprika, c.Items[0].Product)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, sumac, c.Items[1].Product)
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	c := New("session-1")

	c.AddItem(paprika, DefaultMaxQuantity)
	c.AddItem(paprika, DefaultMaxQuantity)

	assert.Len(t, c.Items, 1, "one line per product id")
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestAddItemClampsAtMaxQuantity(t *testing.T) {
	c := New("session-1")

	for i := 0; i < 10; i++ {
		c.AddItem(paprika, DefaultMaxQuantity)
	}

	assert.Equal(t, DefaultMaxQuantity, c.Items[0].Quantity)
}

func TestQuantityInvariantHoldsUnderMixedOperations(t *testing.T) {
	c := New("session-1")

	c.AddItem(paprika, DefaultMaxQuantity)
	c.UpdateQuantity(paprika.ID, 99, DefaultMaxQuantity)
	assert.Equal(t, DefaultMaxQuantity, c.Items[0].Quantity)

	c.UpdateQuantity(paprika.ID, 3, DefaultMaxQuantity)
	assert.Equal(t, 3, c.Items[0].Quantity)

	for i := 0; i < 5; i++ {
		c.AddItem(paprika, DefaultMaxQuantity)
		q := c.Items[0].Quantity
		assert.GreaterOrEqual(t, q, 1)
		assert.LessOrEqual(t, q, DefaultMaxQuantity)
	}
}

func TestUpdateQuantityBelowOneRemovesLine(t *testing.T) {
	c := New("session-1")
	c.AddItem(paprika, DefaultMaxQuantity)
	c.AddItem(sumac, DefaultMaxQuantity)

	c.UpdateQuantity(paprika.ID, 0, DefaultMaxQuantity)

	assert.Len(t, c.Items, 1)
	assert.Equal(t, sumac.ID, c.Items[0].Product.ID)
}

func TestUpdateQuantityUnknownProductIsNoop(t *testing.T) {
	c := New("session-1")
	c.AddItem(paprika, DefaultMaxQuantity)

	c.UpdateQuantity(999, 4, DefaultMaxQuantity)

	assert.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	c := New("session-1")
	c.AddItem(paprika, DefaultMaxQuantity)
	c.AddItem(sumac, DefaultMaxQuantity)

	c.RemoveItem(paprika.ID)
	after := len(c.Items)
	c.RemoveItem(paprika.ID)

	assert.Equal(t, after, len(c.Items))
	assert.Equal(t, sumac.ID, c.Items[0].Product.ID)
}

func TestTotalAndItemCountRecomputedFromItems(t *testing.T) {
	c := New("session-1")
	assert.Equal(t, int64(0), c.Total())
	assert.Equal(t, 0, c.ItemCount())

	c.AddItem(paprika, DefaultMaxQuantity)  // 10000
	c.AddItem(paprika, DefaultMaxQuantity)  // 20000
	c.AddItem(sumac, DefaultMaxQuantity)    // 25000
	c.AddItem(cardamom, DefaultMaxQuantity) // 50000

	assert.Equal(t, int64(50000), c.Total())
	assert.Equal(t, 4, c.ItemCount())

	c.UpdateQuantity(cardamom.ID, 2, DefaultMaxQuantity)
	assert.Equal(t, int64(75000), c.Total())
	assert.Equal(t, 5, c.ItemCount())

	c.RemoveItem(paprika.ID)
	assert.Equal(t, int64(55000), c.Total())
	assert.Equal(t, 3, c.ItemCount())
}

func TestInsertionOrderPreserved(t *testing.T) {
	c := New("session-1")
	c.AddItem(cardamom, DefaultMaxQuantity)
	c.AddItem(paprika, DefaultMaxQuantity)
	c.AddItem(sumac, DefaultMaxQuantity)
	c.AddItem(paprika, DefaultMaxQuantity) // increments, must not reorder

	ids := []uint{}
	for _, item := range c.Items {
		ids = append(ids, item.Product.ID)
	}
	assert.Equal(t, []uint{cardamom.ID, paprika.ID, sumac.ID}, ids)
}

func TestClearEmptiesCart(t *testing.T) {
	c := New("session-1")
	c.AddItem(paprika, DefaultMaxQuantity)
	c.AddItem(sumac, DefaultMaxQuantity)

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.ItemCount())
	assert.Equal(t, int64(0), c.Total())
}
