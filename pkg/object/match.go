package object

// Pair is an input block and the output block matched to it.
type Pair struct {
	Value  int
	Input  Block
	Output Block
}

// Match pairs input and output blocks by color. The first input block of a
// color is paired with the first output block of that color; each color is
// matched at most once. Pairs are returned in the order their input blocks
// were encountered.
func Match(in, out []Block) []Pair {
	firstOut := make(map[int]Block, len(out))
	for _, b := range out {
		if _, ok := firstOut[b.Value]; !ok {
			firstOut[b.Value] = b
		}
	}

	matched := make(map[int]bool)
	var pairs []Pair
	for _, ib := range in {
		ob, ok := firstOut[ib.Value]
		if !ok || matched[ib.Value] {
			continue
		}
		matched[ib.Value] = true
		pairs = append(pairs, Pair{Value: ib.Value, Input: ib, Output: ob})
	}
	return pairs
}
