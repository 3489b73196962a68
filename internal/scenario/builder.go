package scenario

import "iter"

// Template describes a parameterized scenario. Act and Assert receive the
// parameter value of the instance being built.
type Template struct {
	Name    string
	Order   int
	Brittle bool
	Act     func(v string) Step
	Assert  func(v string) Step
}

// Expand yields one scenario per value, in the given order. The sequence is
// lazy and may be ranged over any number of times.
func Expand(t Template, values ...string) iter.Seq[Scenario] {
	vals := append([]string(nil), values...)
	return func(yield func(Scenario) bool) {
		for _, v := range vals {
			s := Scenario{
				Name:    t.Name,
				Order:   t.Order,
				Param:   v,
				Brittle: t.Brittle,
			}
			if t.Act != nil {
				s.Act = t.Act(v)
			}
			if t.Assert != nil {
				s.Assert = t.Assert(v)
			}
			if !yield(s) {
				return
			}
		}
	}
}
