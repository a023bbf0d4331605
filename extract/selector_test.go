package extract

import "testing"

func TestCandidates_InnermostWins(t *testing.T) {
	// The outer list container matches the signal and contains prices,
	// but each card inside independently qualifies — only the cards
	// must be selected, never the wrapper.
	src := `<html><body><div id="list">
		<div class="card">Section 104 Row 20 Standing Ticket £71.50 each</div>
		<div class="card">Section 105 Row 3 Seated Ticket £85.00 each</div>
	</div></body></html>`
	doc := parse(t, src)

	cands := Candidates(doc, DefaultProfile())
	if len(cands) != 2 {
		t.Fatalf("candidates: got %d, want 2", len(cands))
	}
	for _, c := range cands {
		text := Flatten(c)
		if len(text) > 100 {
			t.Errorf("selected a container, not a card: %q", text)
		}
	}
}

func TestCandidates_RejectsJunk(t *testing.T) {
	src := `<html><body>
		<div>No results for this filter £0 delivery</div>
		<div>Section 104 Row 20 Standing Ticket £71.50 each</div>
	</body></html>`
	doc := parse(t, src)

	cands := Candidates(doc, DefaultProfile())
	if len(cands) != 1 {
		t.Fatalf("candidates: got %d, want 1", len(cands))
	}
	if text := Flatten(cands[0]); text != "Section 104 Row 20 Standing Ticket £71.50 each" {
		t.Errorf("wrong candidate: %q", text)
	}
}

func TestCandidates_LengthBand(t *testing.T) {
	long := "Section 104 Row 20 "
	for len(long) < 600 {
		long += "absolutely enormous description padding "
	}
	src := `<html><body>
		<div>£9 Sec 1</div>
		<div>` + long + ` £71.50</div>
	</body></html>`
	doc := parse(t, src)

	if cands := Candidates(doc, DefaultProfile()); len(cands) != 0 {
		t.Errorf("candidates: got %d, want 0 (too short and too long)", len(cands))
	}
}

func TestCandidates_RequiresCurrency(t *testing.T) {
	src := `<html><body><div>Section 104 Row 20 Standing Ticket available now</div></body></html>`
	doc := parse(t, src)

	if cands := Candidates(doc, DefaultProfile()); len(cands) != 0 {
		t.Errorf("candidates without a price: got %d, want 0", len(cands))
	}
}

func TestCandidates_EmptyDocument(t *testing.T) {
	doc := parse(t, `<html><body><p>nothing here</p></body></html>`)
	if cands := Candidates(doc, DefaultProfile()); len(cands) != 0 {
		t.Errorf("candidates: got %d, want 0", len(cands))
	}
	if cands := Candidates(nil, DefaultProfile()); cands != nil {
		t.Error("nil document should yield no candidates")
	}
}
