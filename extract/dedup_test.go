package extract

import "testing"

func TestDeduplicatorFirstOccurrenceWins(t *testing.T) {
	d := NewDeduplicator()

	if !d.Admit("aaa") {
		t.Error("first occurrence must be admitted")
	}
	if d.Admit("aaa") {
		t.Error("repeat must be dropped")
	}
	if !d.Admit("bbb") {
		t.Error("unrelated hash must be admitted")
	}
	if d.Admit("aaa") {
		t.Error("repeat after other admissions must still be dropped")
	}
}
