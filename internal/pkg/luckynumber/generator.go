package luckynumber

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
)

// SeriesSize is the amount of numbers a single numeric series adds to the campaign range.
const SeriesSize = 100000

// drawBudgetCeiling is the hard cap of random draws for one Generate call.
const drawBudgetCeiling = 1_000_000

var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInsufficientCapacity = errors.New("not enough free numbers left in the campaign range")
)

// Source yields uniformly distributed integers in [0, n).
type Source interface {
	Intn(n int) int
}

type lockedSource struct {
	mu  sync.Mutex
	src *rand.Rand
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.src.Intn(n)
}

// NewSource returns a Source safe for concurrent use. A zero seed is replaced
// by one read from crypto/rand.
func NewSource(seed int64) Source {
	if seed == 0 {
		var b [8]byte
		_, _ = crand.Read(b[:])
		seed = int64(binary.LittleEndian.Uint64(b[:]))
	}

	return &lockedSource{src: rand.New(rand.NewSource(seed))}
}

type Generator struct {
	src Source
}

func NewGenerator(src Source) *Generator {
	if src == nil {
		src = NewSource(0)
	}

	return &Generator{
		src: src,
	}
}

// Generate draws quantity distinct numbers in [0, maxNumber) that are not in
// existing and returns them in ascending order.
//
// Free capacity is checked before drawing. Random draws are bounded; once the
// budget is spent the remaining numbers are sampled from the explicit list of
// free slots, so the result stays uniform and the call always terminates.
func (g *Generator) Generate(quantity, maxNumber int, existing map[int]struct{}) ([]int, error) {
	if quantity <= 0 || maxNumber <= 0 {
		return nil, fmt.Errorf("%w: quantity %d and max number %d must be positive", ErrInvalidArgument, quantity, maxNumber)
	}

	free := FreeSlots(maxNumber, existing)
	if quantity > free {
		return nil, fmt.Errorf("%w: requested %d, free %d", ErrInsufficientCapacity, quantity, free)
	}

	picked := make(map[int]struct{}, quantity)
	budget := drawBudget(quantity, maxNumber, free)
	for draws := 0; len(picked) < quantity && draws < budget; draws++ {
		n := g.src.Intn(maxNumber)
		if _, taken := existing[n]; taken {
			continue
		}
		if _, dup := picked[n]; dup {
			continue
		}
		picked[n] = struct{}{}
	}

	if len(picked) < quantity {
		g.fillFromFreeSlots(picked, quantity, maxNumber, existing)
	}

	numbers := make([]int, 0, len(picked))
	for n := range picked {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	return numbers, nil
}

func (g *Generator) fillFromFreeSlots(picked map[int]struct{}, quantity, maxNumber int, existing map[int]struct{}) {
	slots := make([]int, 0, FreeSlots(maxNumber, existing)-len(picked))
	for n := 0; n < maxNumber; n++ {
		if _, taken := existing[n]; taken {
			continue
		}
		if _, dup := picked[n]; dup {
			continue
		}
		slots = append(slots, n)
	}

	// Partial Fisher-Yates over the free slots.
	need := quantity - len(picked)
	for i := 0; i < need; i++ {
		j := i + g.src.Intn(len(slots)-i)
		slots[i], slots[j] = slots[j], slots[i]
		picked[slots[i]] = struct{}{}
	}
}

// FreeSlots counts the numbers of [0, maxNumber) that are not in existing.
// Entries outside the range, left over from a larger configuration, are ignored.
func FreeSlots(maxNumber int, existing map[int]struct{}) int {
	taken := 0
	for n := range existing {
		if n >= 0 && n < maxNumber {
			taken++
		}
	}

	return maxNumber - taken
}

// drawBudget is proportional to the expected draws per accepted number at the
// tightest point of the batch, maxNumber / (free - quantity + 1).
func drawBudget(quantity, maxNumber, free int) int {
	perAccept := maxNumber/(free-quantity+1) + 1
	if perAccept > drawBudgetCeiling/quantity {
		return drawBudgetCeiling
	}

	budget := 3 * quantity * perAccept
	if budget > drawBudgetCeiling {
		return drawBudgetCeiling
	}

	return budget
}

// MaxNumberForSeries returns the exclusive upper bound of the range covered by series.
func MaxNumberForSeries(series int) int {
	return series * SeriesSize
}

// Format zero pads a lucky number to the six digits shown to participants.
func Format(n int) string {
	return fmt.Sprintf("%06d", n)
}

func FormatAll(numbers []int) []string {
	formatted := make([]string, len(numbers))
	for i, n := range numbers {
		formatted[i] = Format(n)
	}

	return formatted
}
