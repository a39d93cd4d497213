package dte

// ScanState is the highlighter's line-start cache entry: the state the
// scanner is in at the first byte of a given row. It also carries the
// heredoc return context, since a subsyntax entered via HeredocBegin must
// know which parent state to resume in and what delimiter ends it — this
// is the one place the implementation generalizes a bare *State into a
// small struct; semantically it is still "the state entering this line".
type ScanState struct {
	St           *State
	Syn          *Syntax // the syntax St belongs to (may be a subsyntax)
	Return       *ScanState
	HeredocDelim string
}

func startOf(syn *Syntax) *ScanState {
	if syn == nil {
		return &ScanState{St: &startStateSentinel}
	}
	return &ScanState{St: syn.Start, Syn: syn}
}

func (s *ScanState) equal(o *ScanState) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.St == o.St && s.Syn == o.Syn && s.HeredocDelim == o.HeredocDelim &&
		((s.Return == nil && o.Return == nil) || (s.Return != nil && o.Return != nil && s.Return.equal(o.Return)))
}

// Span is one emitted, styled region of a highlighted line (for renderers
// to consume,).
type Span struct {
	Start, End int // byte offsets within the line
	Emit       string
}

// hlInsert is the hl_insert hook: row is the
// line the insertion started on, nl is the number of newlines inserted.
func (b *TextBuffer) hlInsert(row, nl int) {
	if b.Syn == nil {
		return
	}
	if nl == 0 {
		b.invalidateFrom(row)
		return
	}
	// Insert nl fresh cache slots at row+1, then rescan from row until the
	// recomputed end-of-line state matches what was already cached.
	grown := make([]State, len(b.lineStartStates)+nl)
	copy(grown[:row+1], b.lineStartStates[:min(row+1, len(b.lineStartStates))])
	copy(grown[row+1+nl:], b.lineStartStates[row+1:])
	b.lineStartStates = grown
	b.shiftHLSide(row+1, nl)
	b.rescanFrom(row)
}

// hlDelete is the hl_delete hook: nl entries are removed at row+1 and
// scanning resumes at row.
func (b *TextBuffer) hlDelete(row, nl int) {
	if b.Syn == nil {
		return
	}
	if nl == 0 {
		b.invalidateFrom(row)
		return
	}
	if row+1+nl <= len(b.lineStartStates) {
		b.lineStartStates = append(b.lineStartStates[:row+1], b.lineStartStates[row+1+nl:]...)
	}
	b.shiftHLSide(row+1, -nl)
	b.rescanFrom(row)
}

// shiftHLSide renumbers b.hlSide entries at or past `from` by delta rows,
// keeping the heredoc side table in sync with lineStartStates insert/
// delete. delta > 0 widens a gap (insert), delta < 0 closes one (delete);
// entries that would land inside a closed gap are dropped.
func (b *TextBuffer) shiftHLSide(from, delta int) {
	if len(b.hlSide) == 0 || delta == 0 {
		return
	}
	shifted := make(map[int]*ScanState, len(b.hlSide))
	for row, ss := range b.hlSide {
		switch {
		case row < from:
			shifted[row] = ss
		case delta < 0 && row < from-delta:
			// row falls inside the deleted span; drop it.
		default:
			shifted[row+delta] = ss
		}
	}
	b.hlSide = shifted
}

// invalidateFrom rescans from row right away without touching the cache
// shape (used when no lines were added/removed).
func (b *TextBuffer) invalidateFrom(row int) {
	b.rescanFrom(row)
}

// markAllLinesChangedForSyntax resets every cached line-start state to the
// syntax's start state, sized to the buffer's current line count, and lets
// rehighlighting recompute it on demand.
func (b *TextBuffer) markAllLinesChangedForSyntax() {
	n := b.LineCount()
	start := startStateSentinel
	if b.Syn != nil {
		start = *b.Syn.Start
	}
	fresh := make([]State, n)
	for i := range fresh {
		fresh[i] = start
	}
	b.lineStartStates = fresh
	b.markAllLinesChanged()
}

// rescanFrom re-highlights row and onward, stopping early once a
// recomputed end-of-line state matches the cache already in place there:
// if the newly computed end-of-line state equals the previously cached
// line_start_states[r+1], highlighting of subsequent lines may stop early.
func (b *TextBuffer) rescanFrom(row int) {
	b.rescanFromOpt(row, true)
}

// rescanAllFrom forces a full rescan with no early-stop, for use right
// after a syntax is attached: every cache entry was just reset to the same
// placeholder start state, so the early-stop comparison would spuriously
// converge at row 1 instead of actually propagating state.
func (b *TextBuffer) rescanAllFrom(row int) {
	b.rescanFromOpt(row, false)
}

func (b *TextBuffer) rescanFromOpt(row int, stopEarly bool) {
	if row < 0 {
		row = 0
	}
	it := b.lineIterAt(row)
	entering := b.scanStateAt(row)
	r := row
	for {
		line := it.lineBytes()
		if line == nil {
			break
		}
		exiting, _ := b.scanLine(line, entering)
		if stopEarly && r+1 < len(b.lineStartStates) {
			cached := b.scanStateAt(r + 1)
			if exiting.equal(cached) {
				return // converged: subsequent lines are still valid
			}
		}
		b.setScanStateAt(r+1, exiting)
		it.NextLine()
		entering = exiting
		r++
		if it.AtEOF() {
			break
		}
	}
}

// lineIterAt returns a BlockIter positioned at the start of line `row`.
func (b *TextBuffer) lineIterAt(row int) BlockIter {
	// Walk forward from BOF counting newlines; buffers are typically small
	// enough per-edit that this is acceptable, and it avoids needing a
	// separate line-offset index purely for the highlighter.
	it := newBlockIter(b.blocks, b.blocks.first(), 0)
	for r := 0; r < row; r++ {
		if it.AtEOF() {
			break
		}
		it.NextLine()
	}
	return it
}

// scanStateAt/setScanStateAt adapt the State-typed cache slice to the
// richer ScanState the heredoc-aware scanner needs, keyed by row through
// b.hlSide. Most states never enter a heredoc, so the common case (plain
// *State, no subsyntax) needs no side table entry at all.
func (b *TextBuffer) scanStateAt(row int) *ScanState {
	if ss, ok := b.hlSide[row]; ok {
		return ss
	}
	if row < len(b.lineStartStates) {
		return &ScanState{St: &b.lineStartStates[row], Syn: b.Syn}
	}
	return startOf(b.Syn)
}

func (b *TextBuffer) setScanStateAt(row int, ss *ScanState) {
	if row < len(b.lineStartStates) {
		b.lineStartStates[row] = *ss.St
	}
	if ss.Return != nil || ss.HeredocDelim != "" || ss.Syn != b.Syn {
		if b.hlSide == nil {
			b.hlSide = make(map[int]*ScanState)
		}
		b.hlSide[row] = ss
	} else if b.hlSide != nil {
		delete(b.hlSide, row)
	}
}

// scanLine runs the state machine over one line's bytes (including its
// trailing '\n', if any), starting from `entering`, and returns the state
// reached at end-of-line plus the emitted spans.
func (b *TextBuffer) scanLine(line []byte, entering *ScanState) (*ScanState, []Span) {
	cur := entering
	var spans []Span
	pos := 0
	matchStart := -1

	emit := func(start, end int, name string) {
		if name == "" || end <= start {
			return
		}
		spans = append(spans, Span{Start: start, End: end, Emit: name})
	}

	for pos < len(line) {
		st := cur.St
		syn := cur.Syn
		matched := false
		for _, c := range st.Conditions {
			var buf []byte
			if matchStart >= 0 {
				buf = line[matchStart:pos]
			}
			var sets map[string][]string
			if syn != nil {
				sets = syn.StringSets
			}
			ok, n := c.match(line[pos:], buf, sets)
			if !ok {
				continue
			}
			matched = true
			switch c.Kind {
			case CondHeredocEnd:
				if cur.HeredocDelim != "" && string(buf) == cur.HeredocDelim {
					emit(matchStart, pos, c.Emit)
					cur = cur.Return
					matchStart = -1
				} else {
					matched = false
					continue
				}
			case CondRecolorBuffer:
				// Recolors what's buffered so far and resets it, but (per
				// the original "recolor" command, which takes no
				// destination) never transitions state itself; fall
				// through to the state's default action at the same
				// position instead of re-scanning conditions, or a
				// recolor condition with nothing left to match would spin
				// forever re-matching itself.
				emit(matchStart, pos, c.Emit)
				matchStart = -1
				matched = false
			case CondRecolor:
				start := pos - c.RecolorLen
				if start < 0 {
					start = 0
				}
				emit(start, pos, c.Emit)
				matched = false
			case CondCharBuffer:
				matchStart = pos
				pos += n
				cur = resolveDest(syn, c.Dest, cur)
			default:
				if matchStart < 0 {
					matchStart = pos
				}
				pos += n
				cur = resolveDest(syn, c.Dest, cur)
			}
			break
		}
		if matched {
			continue
		}

		// No condition matched: apply the state's default action.
		switch st.Default.Kind {
		case ActionEat:
			if pos < len(line) {
				pos++
			} else {
				goto done
			}
			cur = resolveDest(syn, st.Default.Dest, cur)
		case ActionNoeat:
			next := resolveDest(syn, st.Default.Dest, cur)
			if next.St == st && next.Syn == syn {
				// Avoid an infinite loop on a misconfigured state.
				pos++
			}
			cur = next
		case ActionNoeatBuffer:
			matchStart = -1
			cur = resolveDest(syn, st.Default.Dest, cur)
		case ActionHeredocBegin:
			delim := ""
			if matchStart >= 0 {
				delim = string(line[matchStart:pos])
			}
			sub := syn
			if syn != nil {
				if s, ok := syn.Subsyntaxes[st.Default.Dest]; ok {
					sub = s
				}
			}
			cur = &ScanState{St: sub.Start, Syn: sub, Return: cur, HeredocDelim: delim}
			matchStart = -1
		}
	}
done:
	return cur, spans
}

// resolveDest maps a condition/action's destination name to a *ScanState:
// "END" returns to the enclosing state (only valid inside a subsyntax);
// anything else looks the name up in the active syntax's state table.
func resolveDest(syn *Syntax, dest string, cur *ScanState) *ScanState {
	if dest == "" {
		return cur
	}
	if dest == "END" {
		if cur.Return != nil {
			return cur.Return
		}
		return cur
	}
	if syn == nil {
		return cur
	}
	if st, ok := syn.States[dest]; ok {
		return &ScanState{St: st, Syn: syn, Return: cur.Return, HeredocDelim: cur.HeredocDelim}
	}
	return cur
}

// LineBytes returns the raw bytes of line row (including its trailing
// newline, if any), for callers that need the source text a Span indexes
// into — principally the render driver feeding Canvas.WriteSpans.
func (b *TextBuffer) LineBytes(row int) []byte {
	return b.lineIterAt(row).lineBytes()
}

// HighlightLine runs the highlighter over the text of line `row` using the
// cached entering state, for consumption by the render driver. It does
// not mutate the cache; callers that changed text should have already
// gone through hlInsert/hlDelete.
func (b *TextBuffer) HighlightLine(row int) []Span {
	if b.Syn == nil {
		return nil
	}
	it := b.lineIterAt(row)
	line := it.lineBytes()
	if line == nil {
		return nil
	}
	_, spans := b.scanLine(line, b.scanStateAt(row))
	return spans
}
