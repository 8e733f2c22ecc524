package rangeparse_test

import (
	"testing"
	"time"

	"github.com/bjaus/reta/rangeparse"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		spec             string
		multiples        bool
		upper            int
		allowNonPositive bool
		want             []int
	}{
		"offsets and literal":   {spec: "1-3+2,4", upper: 100, want: []int{1, 2, 3, 4, 5}},
		"exclusion":             {spec: "1,2,3,-2", upper: 100, want: []int{1, 3}},
		"exclusion only":        {spec: "-2", upper: 100, want: []int{}},
		"single":                {spec: "7", upper: 100, want: []int{7}},
		"clipped to upper":      {spec: "8-12", upper: 10, want: []int{8, 9, 10}},
		"unbounded":             {spec: "98-101", upper: 0, want: []int{98, 99, 100, 101}},
		"reversed range":        {spec: "5-3", upper: 10, want: []int{}},
		"zero dropped":          {spec: "0,1", upper: 10, want: []int{1}},
		"two offsets":           {spec: "10+1+3", upper: 20, want: []int{7, 9, 10, 11, 13}},
		"non positive allowed":  {spec: "1-2+5", upper: 100, allowNonPositive: true, want: []int{-4, -3, 1, 2, 6, 7}},
		"multiples flag":        {spec: "2-3", multiples: true, upper: 12, want: []int{2, 3, 4, 6, 8, 9, 10, 12}},
		"multiples offset":      {spec: "5+1", multiples: true, upper: 12, want: []int{4, 5, 6, 9, 10, 11}},
		"marker":                {spec: "v3", upper: 10, want: []int{3, 6, 9}},
		"marker exclusion":      {spec: "1-6,v-2", upper: 6, want: []int{1, 3, 5}},
		"dash marker exclusion": {spec: "1-6,-v3", upper: 6, want: []int{1, 2, 4, 5}},
		"multiples unbounded":   {spec: "2", multiples: true, upper: 0, want: []int{}},
		"multiples clipped":     {spec: "4-1000000", multiples: true, upper: 9, want: []int{4, 5, 6, 7, 8, 9}},
		"bracket list":          {spec: "[7,9],{2},(3,4)", upper: 5, want: []int{2, 3, 4, 7, 9}},
		"malformed list":        {spec: "(3,x),5", upper: 10, want: []int{5}},
		"excluded list":         {spec: "1-5,-[2,4]", upper: 10, want: []int{1, 3, 5}},
		"malformed token":       {spec: "a-3, 4", upper: 10, want: []int{4}},
		"malformed offset":      {spec: "3+x,6", upper: 10, want: []int{6}},
		"empty tokens":          {spec: ",, 2 ,", upper: 10, want: []int{2}},
		"unicode garbage":       {spec: "ä,3", upper: 10, want: []int{3}},
		"empty":                 {spec: "", upper: 10, want: []int{}},
		"lone dash":             {spec: "-,4", upper: 10, want: []int{4}},
	}

	p := rangeparse.New(rangeparse.DefaultMarker)
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := p.Parse(tt.spec, tt.multiples, tt.upper, tt.allowNonPositive)
			assert.Equal(t, tt.want, got.Values())
		})
	}
}

func TestParseHugeMultiplesRange(t *testing.T) {
	t.Parallel()
	p := rangeparse.New(rangeparse.DefaultMarker)

	done := make(chan []int, 1)
	go func() { done <- p.Parse("1-2000000000", true, 114, false).Values() }()

	select {
	case got := <-done:
		assert.Len(t, got, 114)
		assert.Equal(t, 114, got[len(got)-1])
	case <-time.After(5 * time.Second):
		t.Fatal("parse of a huge multiples range did not finish")
	}
}

func TestParseConfiguredMarker(t *testing.T) {
	t.Parallel()
	p := rangeparse.New("x")
	assert.Equal(t, []int{4, 8}, p.Parse("x4", false, 10, false).Values())
	assert.Empty(t, p.Parse("v4", false, 10, false).Values())
	assert.Equal(t, "x", p.Marker())
}

func TestParseDeterministic(t *testing.T) {
	t.Parallel()
	p := rangeparse.New(rangeparse.DefaultMarker)
	first := p.Parse("1-50+3,v7,-20-30", false, 60, false)
	for range 10 {
		assert.True(t, first.Equal(p.Parse("1-50+3,v7,-20-30", false, 60, false)))
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()
	p := rangeparse.New(rangeparse.DefaultMarker)
	pos, neg := p.Split("1-3, -4,v-2,v5,-[6,7],-")
	assert.Equal(t, []string{"1-3", "v5"}, pos)
	assert.Equal(t, []string{"4", "v2", "[6,7]"}, neg)
}

func TestSplitTokens(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want []string
	}{
		"plain":    {in: "1,2", want: []string{"1", "2"}},
		"brackets": {in: "(1,2),[3,4],{5,6},7", want: []string{"(1,2)", "[3,4]", "{5,6}", "7"}},
		"unicode":  {in: "ä,(ö,ü),ß", want: []string{"ä", "(ö,ü)", "ß"}},
		"empty":    {in: "", want: []string{""}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, rangeparse.SplitTokens(tt.in))
		})
	}
}
