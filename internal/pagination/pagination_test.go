package pagination

import "testing"

func TestBuildMetaRoundsPagesUp(t *testing.T) {
	meta := BuildMeta(Params{Page: 1, Limit: 10}, 25)

	if meta.TotalPages != 3 {
		t.Errorf("expected 3 pages for 25 items, got %d", meta.TotalPages)
	}
	if meta.TotalItems != 25 {
		t.Errorf("expected 25 items, got %d", meta.TotalItems)
	}
}

func TestBuildMetaExactFit(t *testing.T) {
	meta := BuildMeta(Params{Page: 2, Limit: 5}, 20)

	if meta.TotalPages != 4 {
		t.Errorf("expected 4 pages for 20 items, got %d", meta.TotalPages)
	}
	if meta.Page != 2 || meta.Limit != 5 {
		t.Errorf("params not carried through: %+v", meta)
	}
}

func TestBuildMetaEmpty(t *testing.T) {
	meta := BuildMeta(Params{Page: 1, Limit: 10}, 0)

	if meta.TotalPages != 0 {
		t.Errorf("expected 0 pages, got %d", meta.TotalPages)
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 1, Limit: 10}).Offset(); got != 0 {
		t.Errorf("page 1 offset: expected 0, got %d", got)
	}
	if got := (Params{Page: 3, Limit: 25}).Offset(); got != 50 {
		t.Errorf("page 3 offset: expected 50, got %d", got)
	}
}
