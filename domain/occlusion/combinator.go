package occlusion

// Combinator combines the probabilities of two chained occlusion
// relations (a covers b, b covers c) into the probability of the derived
// relation (a covers c).
type Combinator func(ab, bc float64) float64

// CombineProduct multiplies the probabilities. This is the default:
// occlusion through an intermediate state is never more certain than
// either link.
func CombineProduct(ab, bc float64) float64 {
	return ab * bc
}

// CombineMax takes the larger probability, treating the stronger link as
// dominant.
func CombineMax(ab, bc float64) float64 {
	if ab > bc {
		return ab
	}
	return bc
}

// weaker returns the class with the lower probability floor. Derived
// relations carry the weaker class of the two links.
func weaker(a, b Class) Class {
	aLo, _ := a.bounds()
	bLo, _ := b.bounds()
	if bLo < aLo {
		return b
	}
	return a
}
