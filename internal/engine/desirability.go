package engine

// Desirability sentinels returned when the traffic router reports that no
// trip could be routed from the zone; they force decline regardless of land
// value.
const (
	resTrafficPenalty = -3000
	comTrafficPenalty = -3000
	indTrafficPenalty = -1000
)

// Evaluator turns the scalar fields into discrete desirability scores.
type Evaluator struct {
	fields *Fields
}

// NewEvaluator wraps the shared field arrays.
func NewEvaluator(fields *Fields) *Evaluator {
	return &Evaluator{fields: fields}
}

// CRVal maps land value minus pollution at (x,y) to a 0..3 tier. The tier
// picks the value component of the combined index, not the grow/shrink
// decision.
func (e *Evaluator) CRVal(x, y int) int {
	v := e.fields.LandValueAt(x, y) - e.fields.PollutionAt(x, y)
	switch {
	case v < 30:
		return 0
	case v < 80:
		return 1
	case v < 150:
		return 2
	default:
		return 3
	}
}

// EvalRes scores residential desirability as a signed value centered at
// zero and clamped to +/-3000. Used purely to decide grow-vs-shrink.
func (e *Evaluator) EvalRes(traf, x, y int) int {
	if traf < 0 {
		return resTrafficPenalty
	}

	value := e.fields.LandValueAt(x, y) - e.fields.PollutionAt(x, y)
	if value < 0 {
		value = 0
	} else {
		value <<= 5
	}
	if value > 6000 {
		value = 6000
	}
	return value - 3000
}

// EvalCom scores commercial desirability from the eighth-resolution demand
// rate field.
func (e *Evaluator) EvalCom(traf, x, y int) int {
	if traf < 0 {
		return comTrafficPenalty
	}
	return e.fields.ComRateAt(x, y)
}

// EvalInd scores industrial desirability. Industry grows anywhere it can
// route traffic.
func (e *Evaluator) EvalInd(traf int) int {
	if traf < 0 {
		return indTrafficPenalty
	}
	return 0
}
