package domain

// TravelLeg is one cell of the pairwise travel matrix. Unreachable marks a
// pair the directions provider could not connect; such a leg must never be
// mistaken for a zero-cost hop.
type TravelLeg struct {
	DurationSeconds int
	DistanceMeters  int
	Unreachable     bool
}

// DistanceMatrix is a symmetric n x n travel matrix over a fixed stop list,
// with a zero diagonal. It is built fresh per optimization request and never
// cached: travel times have to reflect current conditions.
type DistanceMatrix struct {
	Stops []Stop
	Legs  [][]TravelLeg
}

// NewDistanceMatrix allocates a zeroed matrix for the given stops.
func NewDistanceMatrix(stops []Stop) *DistanceMatrix {
	n := len(stops)
	legs := make([][]TravelLeg, n)
	for i := range legs {
		legs[i] = make([]TravelLeg, n)
	}
	return &DistanceMatrix{Stops: stops, Legs: legs}
}

func (m *DistanceMatrix) Size() int { return len(m.Stops) }

// SetLeg stores a leg symmetrically in [i][j] and [j][i].
func (m *DistanceMatrix) SetLeg(i, j int, leg TravelLeg) {
	m.Legs[i][j] = leg
	m.Legs[j][i] = leg
}

// SetUnreachable marks the pair (i, j) as unconnected in both directions.
func (m *DistanceMatrix) SetUnreachable(i, j int) {
	m.SetLeg(i, j, TravelLeg{Unreachable: true})
}

func (m *DistanceMatrix) Leg(i, j int) TravelLeg { return m.Legs[i][j] }

// Reachable reports whether the directions provider connected the pair.
func (m *DistanceMatrix) Reachable(i, j int) bool { return !m.Legs[i][j].Unreachable }
