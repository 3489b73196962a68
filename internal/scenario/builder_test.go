package scenario

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand_OneScenarioPerValueInOrder(t *testing.T) {
	var seen []string
	tmpl := Template{
		Name:  "pick",
		Order: 7,
		Act: func(v string) Step {
			return func(context.Context, *Env) error {
				seen = append(seen, v)
				return nil
			}
		},
	}

	seq := Expand(tmpl, "a", "b", "c")

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	if assert.Len(t, first, 3) {
		for i, want := range []string{"a", "b", "c"} {
			assert.Equal(t, want, first[i].Param)
			assert.Equal(t, 7, first[i].Order)
			assert.Equal(t, "pick ["+want+"]", first[i].Key())
			assert.Nil(t, first[i].Assert)
		}
	}
	assert.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Key(), second[i].Key())
	}

	for _, s := range first {
		_ = s.Act(context.Background(), nil)
	}
	assert.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestExpand_StopsEarly(t *testing.T) {
	n := 0
	for range Expand(Template{Name: "x"}, "1", "2", "3") {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestExpand_NoValues(t *testing.T) {
	assert.Empty(t, slices.Collect(Expand(Template{Name: "none"})))
}
