package decode

import (
	"sort"
	"strings"
)

// Params holds the thresholds for one field kind.
type Params struct {
	MinScore   float64 // best score below this is BLANK
	AmbDelta   float64 // top-two gap below which the pick is AMBIGUOUS
	MultiRatio float64 // share of the best score another bubble needs to count as selected
	// FaintRatio shrinks AmbDelta to best*FaintRatio on light scans.
	FaintRatio float64
	// SecondFloor is the share of MinScore the runner-up needs before it can
	// make a pick ambiguous.
	SecondFloor float64
}

// Result is a decoded field. Best and second-best data are always filled
// when at least one candidate exists, whatever the status.
type Result struct {
	Value       string
	Status      Status
	BestIndex   int
	BestScore   float64
	BestLabel   string
	SecondIndex int // -1 when there is a single candidate
	SecondLabel string
	SecondScore float64
	Picked      []int // selected candidate indices in position order
}

// order returns candidate indices by descending score; ties keep position
// order, so an all-blank field reports its first two labels.
func order(scores []float64) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })
	return idx
}

// PickOne decodes a single-choice field. AMBIGUOUS results still carry the
// top label as Value; callers decide whether to keep it.
func PickOne(scores []float64, labels []string, p Params) Result {
	res := Result{Status: StatusBlank, SecondIndex: -1}
	if len(scores) == 0 {
		return res
	}
	idx := order(scores)
	top := idx[0]
	res.BestIndex = top
	res.BestScore = scores[top]
	res.BestLabel = labels[top]
	if len(idx) > 1 {
		res.SecondIndex = idx[1]
		res.SecondLabel = labels[idx[1]]
		res.SecondScore = scores[idx[1]]
	}

	if res.BestScore < p.MinScore {
		return res
	}
	res.Value = res.BestLabel
	res.Picked = []int{top}
	res.Status = StatusOK
	if res.SecondIndex >= 0 {
		delta := min(p.AmbDelta, res.BestScore*p.FaintRatio)
		if res.SecondScore >= p.MinScore*p.SecondFloor && res.BestScore-res.SecondScore < delta {
			res.Status = StatusAmbiguous
		}
	}
	return res
}

// PickMulti decodes a field that allows several marks. Two or more bubbles
// at or above max(MinScore, best*MultiRatio) make it MULTI, with the labels
// joined in position order. Otherwise it falls back to PickOne and keeps the
// value only when the pick is OK.
func PickMulti(scores []float64, labels []string, p Params) Result {
	best := 0.0
	for _, s := range scores {
		best = max(best, s)
	}
	cutoff := max(p.MinScore, best*p.MultiRatio)

	var picked []int
	for i, s := range scores {
		if s >= cutoff {
			picked = append(picked, i)
		}
	}
	if len(picked) >= 2 {
		return multi(scores, labels, picked)
	}

	res := PickOne(scores, labels, p)
	if res.Status != StatusOK {
		res.Value = ""
		res.Picked = nil
	}
	return res
}

func multi(scores []float64, labels []string, picked []int) Result {
	var sb strings.Builder
	for _, i := range picked {
		sb.WriteString(labels[i])
	}
	sub := make([]float64, len(picked))
	for k, i := range picked {
		sub[k] = scores[i]
	}
	ranked := order(sub)
	first, second := picked[ranked[0]], picked[ranked[1]]
	return Result{
		Value:       sb.String(),
		Status:      StatusMulti,
		BestIndex:   first,
		BestScore:   scores[first],
		BestLabel:   labels[first],
		SecondIndex: second,
		SecondLabel: labels[second],
		SecondScore: scores[second],
		Picked:      picked,
	}
}
