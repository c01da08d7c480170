package dedupe

import (
	"reflect"
	"testing"

	"github.com/tomhendersonfl/conda/pkg/dist"
)

func TestToRemoveWithKeep(t *testing.T) {
	distMetas := []dist.Key{"foo-1-0", "foo-2-0", "bar-1-0"}
	keep := []dist.Key{"foo-2-0"}

	got := ToRemove(distMetas, keep)
	want := []dist.Key{"foo-1-0"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestToRemoveWithoutKeep(t *testing.T) {
	distMetas := []dist.Key{"foo-1-0", "foo-2-0", "bar-1-0"}

	got := ToRemove(distMetas, nil)
	want := []dist.Key{"foo-1-0"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestToRemoveIdempotent(t *testing.T) {
	distMetas := []dist.Key{"foo-1-0", "foo-2-0", "foo-3-0", "bar-1-0"}
	keep := []dist.Key{}

	first := ToRemove(distMetas, keep)

	var remaining []dist.Key
	removed := make(map[dist.Key]bool)
	for _, d := range first {
		removed[d] = true
	}
	for _, d := range distMetas {
		if !removed[d] {
			remaining = append(remaining, d)
		}
	}

	second := ToRemove(remaining, keep)
	if len(second) != 0 {
		t.Errorf("expected idempotent result to be empty, got %v", second)
	}
}

func TestToRemoveNoDuplicates(t *testing.T) {
	distMetas := []dist.Key{"a-1-0"}
	got := ToRemove(distMetas, nil)
	if len(got) != 0 {
		t.Errorf("singleton group should never be removed, got %v", got)
	}
}
