package formation

import "github.com/OCAP2/tacticboard/pkg/core"

// slot is one player of a formation template in full-pitch coordinates.
type slot struct {
	Number int
	X, Z   float64
}

// template holds both sides of a formation. Team A attacks towards +x.
type template struct {
	A, B []slot
}

var templates = map[string]template{
	"4-3-3": {
		A: []slot{
			{1, -50, 0}, {2, -30, -20}, {3, -30, 20}, {4, -40, -10}, {5, -40, 10},
			{6, -15, 0}, {8, -5, -15}, {10, -5, 15},
			{7, 20, -20}, {11, 20, 20}, {9, 25, 0},
		},
		B: []slot{
			{1, 50, 0}, {2, 30, -20}, {3, 30, 20}, {4, 40, -10}, {5, 40, 10},
			{6, 15, 0}, {8, 5, -15}, {10, 5, 15},
			{7, -20, -20}, {11, -20, 20}, {9, -25, 0},
		},
	},
	"4-4-2": {
		A: []slot{
			{1, -50, 0}, {2, -35, -20}, {3, -35, 20}, {4, -35, -7}, {5, -35, 7},
			{7, -10, -20}, {6, -15, -7}, {8, -15, 7}, {11, -10, 20},
			{9, 20, -7}, {10, 20, 7},
		},
		B: []slot{
			{1, 50, 0}, {2, 35, -20}, {3, 35, 20}, {4, 35, -7}, {5, 35, 7},
			{7, 10, -20}, {6, 15, -7}, {8, 15, 7}, {11, 10, 20},
			{9, -20, -7}, {10, -20, 7},
		},
	},
	"4-2-3-1": {
		A: []slot{
			{1, -50, 0}, {2, -30, -20}, {3, -30, 20}, {4, -40, -8}, {5, -40, 8},
			{6, -15, -8}, {8, -15, 8},
			{10, 5, 0}, {7, 5, -20}, {11, 5, 20}, {9, 25, 0},
		},
		B: []slot{
			{1, 50, 0}, {2, 30, -20}, {3, 30, 20}, {4, 40, -8}, {5, 40, 8},
			{6, 15, -8}, {8, 15, 8},
			{10, -5, 0}, {7, -5, -20}, {11, -5, 20}, {9, -25, 0},
		},
	},
	"3-5-2": {
		A: []slot{
			{1, -50, 0}, {2, -35, -15}, {4, -35, 0}, {5, -35, 15},
			{7, -10, -25}, {11, -10, 25}, {6, -10, 0}, {8, 5, -10}, {10, 5, 10},
			{9, 25, -5}, {12, 25, 5},
		},
		B: []slot{
			{1, 50, 0}, {2, 35, -15}, {4, 35, 0}, {5, 35, 15},
			{7, 10, -25}, {11, 10, 25}, {6, 10, 0}, {8, -5, -10}, {10, -5, 10},
			{9, -25, -5}, {12, -25, 5},
		},
	},
}

func (t template) side(team core.Team) []slot {
	if team == core.TeamB {
		return t.B
	}
	return t.A
}
