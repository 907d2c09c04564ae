package city

import "math/rand"

type Grid struct {
	size  int
	cells []ZoneType
}

func NewGrid(size int) *Grid {
	if size <= 0 {
		size = DefaultGridSize
	}
	return &Grid{size: size, cells: make([]ZoneType, size*size)}
}

func (g *Grid) Size() int { return g.size }

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.size && y >= 0 && y < g.size
}

// At returns Empty for out-of-range coordinates.
func (g *Grid) At(x, y int) ZoneType {
	if !g.inBounds(x, y) {
		return Empty
	}
	return g.cells[x*g.size+y]
}

// CanPlace runs PlaceZone's checks without touching the grid.
func (g *Grid) CanPlace(x, y int) error {
	if !g.inBounds(x, y) {
		return ErrOutOfBounds
	}
	if g.cells[x*g.size+y] != Empty {
		return ErrOccupiedPlot
	}
	return nil
}

func (g *Grid) PlaceZone(x, y int, z ZoneType) error {
	if _, ok := SpecFor(z); !ok {
		return ErrUnknownZone
	}
	if err := g.CanPlace(x, y); err != nil {
		return err
	}
	g.cells[x*g.size+y] = z
	return nil
}

// RandomInitialize clears the grid and scatters the requested zones over
// shuffled coordinates, walking zone types in catalog order. It returns how
// many of each type were actually placed.
func (g *Grid) RandomInitialize(counts map[ZoneType]int, rng *rand.Rand) map[ZoneType]int {
	for i := range g.cells {
		g.cells[i] = Empty
	}
	positions := make([]int, len(g.cells))
	for i := range positions {
		positions[i] = i
	}
	rng.Shuffle(len(positions), func(i, j int) {
		positions[i], positions[j] = positions[j], positions[i]
	})

	placed := make(map[ZoneType]int, len(counts))
	for _, spec := range zoneCatalog {
		n := counts[spec.Type]
		if n <= 0 {
			continue
		}
		if n > len(positions) {
			n = len(positions)
		}
		for _, idx := range positions[:n] {
			g.cells[idx] = spec.Type
		}
		positions = positions[n:]
		placed[spec.Type] = n
	}
	return placed
}

func (g *Grid) Counts() map[ZoneType]int {
	out := make(map[ZoneType]int)
	for _, c := range g.cells {
		if c != Empty {
			out[c]++
		}
	}
	return out
}
