package ethnicity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDefaultValues(t *testing.T) {
	values := ParseDefaultValues([]string{"n/a", "group-*", ""}, "")

	assert.False(t, values[0].IsTemplate())
	assert.True(t, values[1].IsTemplate())
	assert.False(t, values[2].IsTemplate())
	assert.Equal(t, "group-*", values[1].Text())
}

func TestDefaultValueResolve(t *testing.T) {
	tests := []struct {
		name      string
		value     DefaultValue
		wildcard  string
		ethnicity string
		want      string
	}{
		{"literal keeps wildcard", Literal("a*b"), "*", "Polish", "a*b"},
		{"template substitutes", Template("group-*"), "*", "Polish", "group-Polish"},
		{"template substitutes every token", Template("*/*"), "*", "Roma", "Roma/Roma"},
		{"empty ethnicity", Template("group-*"), "*", "", "group-"},
		{"no wildcard configured", Template("group-*"), "", "Polish", "group-*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.Resolve(tt.wildcard, tt.ethnicity))
		})
	}
}
