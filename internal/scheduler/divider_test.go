package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDivideRange(t *testing.T) {
	assert.Equal(t, []UnitRange{{0, 33}, {33, 67}, {67, 100}}, DivideRange(100, 3))
	assert.Equal(t, []UnitRange{{0, 5}, {5, 10}}, DivideRange(10, 2))
	assert.Equal(t, []UnitRange{{0, 0}, {0, 1}, {1, 1}}, DivideRange(1, 3))
	assert.Equal(t, []UnitRange{{0, 0}, {0, 0}}, DivideRange(0, 2))
	assert.Nil(t, DivideRange(10, 0))
}

func TestDivideRange_Property_SumAndOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 500; iter++ {
		total := rng.Intn(1000)
		count := 1 + rng.Intn(30)

		pieces := DivideRange(total, count)
		require.Len(t, pieces, count)

		sum := 0
		for i, p := range pieces {
			assert.GreaterOrEqual(t, p.Extent(), 0)
			if i > 0 {
				assert.Equal(t, pieces[i-1].End, p.Start, "pieces are contiguous")
			}
			sum += p.Extent()
		}
		assert.Equal(t, total, sum, "total=%d count=%d", total, count)
		assert.Equal(t, 0, pieces[0].Start)
		assert.Equal(t, total, pieces[count-1].End)
	}
}

func TestAssignRanges_OffsetsByStartUnit(t *testing.T) {
	c := book("b", 100)
	c.StartUnit = 20
	dates := []time.Time{mustDate(t, "2025-03-03"), mustDate(t, "2025-03-04"), mustDate(t, "2025-03-05")}

	got := AssignRanges(c, dates)
	require.Len(t, got, 3)
	assert.Equal(t, domain.RangeAssignment{ContentID: "b", Date: dates[0], StartUnit: 20, EndUnit: 53}, got[0])
	assert.Equal(t, domain.RangeAssignment{ContentID: "b", Date: dates[1], StartUnit: 53, EndUnit: 87}, got[1])
	assert.Equal(t, domain.RangeAssignment{ContentID: "b", Date: dates[2], StartUnit: 87, EndUnit: 120}, got[2])

	assert.Empty(t, AssignRanges(c, nil))
}
