package tristrip

import "fmt"

const validateBins = 100

// Validate checks that every visible triangle in groups is one of the input
// triangles with the same winding. It is meant for tests and debugging.
func Validate(input []int, groups []PrimitiveGroup) error {
	var bins [validateBins][][3]int
	for i := 0; i+2 < len(input); i += 3 {
		t := [3]int{input[i], input[i+1], input[i+2]}
		b := t[0] % validateBins
		bins[b] = append(bins[b], t)
	}

	for gi, g := range groups {
		for _, t := range g.Triangles() {
			if !testTriangle(&bins, t) {
				return fmt.Errorf("%w: group %d (%s) has triangle %v not in input",
					ErrValidation, gi, g.Mode, t)
			}
		}
	}
	return nil
}

func testTriangle(bins *[validateBins][][3]int, t [3]int) bool {
	for _, v := range t {
		for _, in := range bins[v%validateBins] {
			if sameTriangle(in, t) {
				return true
			}
		}
	}
	return false
}

// sameTriangle compares two triangles up to rotation. Mirrored winding is a
// different triangle.
func sameTriangle(a, b [3]int) bool {
	switch a[0] {
	case b[0]:
		return a[1] == b[1] && a[2] == b[2]
	case b[1]:
		return a[1] == b[2] && a[2] == b[0]
	case b[2]:
		return a[1] == b[0] && a[2] == b[1]
	}
	return false
}
