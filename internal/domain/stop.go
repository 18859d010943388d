package domain

import "time"

// Stop is one geocoded point a route must visit. Index 0 of any stop list is
// always the fixed depot. CustomerName and ScheduledAt are only populated for
// stops derived from bookings.
type Stop struct {
	Label        string
	Coord        Coordinates
	CustomerName string
	ScheduledAt  *time.Time
}

// Route is the planned visit order over a fixed stop list, together with the
// aggregate metrics of the single multi-waypoint route request. Immutable
// planning data, no side effects.
type Route struct {
	Order                []int  // permutation of stop indices, Order[0] == 0
	Stops                []Stop // stops in visit order
	TotalDurationSeconds int
	TotalDistanceMeters  int
}
