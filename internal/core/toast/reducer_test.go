package toast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func list(ids ...string) []Toast {
	out := make([]Toast, len(ids))
	for i, id := range ids {
		out[i] = Toast{ID: id, Title: "t" + id, Open: true}
	}
	return out
}

func ids(ts []Toast) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestReduce_Add(t *testing.T) {
	tests := []struct {
		name  string
		prev  []Toast
		limit int
		want  []string
	}{
		{name: "empty", prev: list(), limit: 1, want: []string{"new"}},
		{name: "evicts oldest at limit 1", prev: list("1"), limit: 1, want: []string{"new"}},
		{name: "keeps under limit", prev: list("2", "1"), limit: 3, want: []string{"new", "2", "1"}},
		{name: "truncates tail", prev: list("3", "2", "1"), limit: 3, want: []string{"new", "3", "2"}},
		{name: "zero limit holds nothing", prev: list("1"), limit: 0, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(tt.prev, Op{Kind: OpAdd, Toast: Toast{ID: "new", Open: true}}, tt.limit)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestReduce_DoesNotModifyInput(t *testing.T) {
	prev := list("2", "1")
	snapshot := append([]Toast(nil), prev...)

	Reduce(prev, Op{Kind: OpAdd, Toast: Toast{ID: "3"}}, 2)
	Reduce(prev, Op{Kind: OpDismiss, ID: "1"}, 2)
	Reduce(prev, Op{Kind: OpUpdate, ID: "2", Patch: Patch{Title: new(string)}}, 2)
	Reduce(prev, Op{Kind: OpRemove, ID: "2"}, 2)

	assert.Equal(t, snapshot, prev)
}

func TestReduce_Update(t *testing.T) {
	title := "renamed"
	prev := list("2", "1")

	got := Reduce(prev, Op{Kind: OpUpdate, ID: "1", Patch: Patch{Title: &title}}, 2)

	require.Len(t, got, 2)
	assert.Equal(t, "t2", got[0].Title)
	assert.Equal(t, "renamed", got[1].Title)
	assert.True(t, got[1].Open)
}

func TestReduce_UpdateUnknownID(t *testing.T) {
	title := "x"
	prev := list("1")

	got := Reduce(prev, Op{Kind: OpUpdate, ID: "9", Patch: Patch{Title: &title}}, 1)

	assert.Equal(t, prev, got)
}

func TestReduce_Dismiss(t *testing.T) {
	prev := list("2", "1")

	one := Reduce(prev, Op{Kind: OpDismiss, ID: "1"}, 2)
	assert.True(t, one[0].Open)
	assert.False(t, one[1].Open)

	all := Reduce(prev, Op{Kind: OpDismiss}, 2)
	assert.False(t, all[0].Open)
	assert.False(t, all[1].Open)
}

func TestReduce_Remove(t *testing.T) {
	prev := list("3", "2", "1")

	assert.Equal(t, []string{"3", "1"}, ids(Reduce(prev, Op{Kind: OpRemove, ID: "2"}, 3)))
	assert.Equal(t, []string{"3", "2", "1"}, ids(Reduce(prev, Op{Kind: OpRemove, ID: "9"}, 3)))
	assert.Empty(t, Reduce(prev, Op{Kind: OpRemove}, 3))
}

func TestReduce_UnknownKind(t *testing.T) {
	prev := list("1")
	assert.Equal(t, prev, Reduce(prev, Op{Kind: "BOGUS"}, 1))
}

func TestPatch_Apply(t *testing.T) {
	desc := "d2"
	variant := VariantDestructive
	base := Toast{
		ID:          "1",
		Title:       "t",
		Description: "d",
		Extra:       map[string]any{"a": 1},
	}

	got := Patch{
		Description: &desc,
		Variant:     &variant,
		Action:      &Action{Label: "Retry"},
		Extra:       map[string]any{"b": 2},
	}.apply(base)

	assert.Equal(t, "t", got.Title)
	assert.Equal(t, "d2", got.Description)
	assert.Equal(t, VariantDestructive, got.Variant)
	assert.Equal(t, "Retry", got.Action.Label)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, got.Extra)
	assert.Equal(t, map[string]any{"a": 1}, base.Extra, "base extra must not change")
}

func TestIDGen_Wraps(t *testing.T) {
	g := &idGen{count: maxID - 1}
	assert.Equal(t, "0", g.next())
	assert.Equal(t, "1", g.next())
}
