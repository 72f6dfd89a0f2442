package chunkers

import "testing"

func TestDetectSectionsHeadings(t *testing.T) {
	source := []byte("Intro text before any heading.\n\n# One\n\nBody one.\n\n## Two\n\nBody two.\n")

	sections := DetectSections(source)
	if len(sections) != 3 {
		t.Fatalf("got %d sections, want 3", len(sections))
	}

	preamble := sections[0]
	if preamble.Title != "" || preamble.HeadingLevel != 0 || preamble.Start != 0 {
		t.Errorf("unexpected preamble %+v", preamble)
	}
	if sections[1].Title != "One" || sections[1].HeadingLevel != 1 {
		t.Errorf("unexpected section %+v", sections[1])
	}
	if sections[2].Title != "Two" || sections[2].HeadingLevel != 2 {
		t.Errorf("unexpected section %+v", sections[2])
	}

	// Sections tile the document with no gaps.
	for i := 1; i < len(sections); i++ {
		if sections[i].Start != sections[i-1].End {
			t.Errorf("section %d starts at %d, previous ends at %d", i, sections[i].Start, sections[i-1].End)
		}
	}
	if last := sections[len(sections)-1]; last.End != len(source) {
		t.Errorf("last section ends at %d, want %d", last.End, len(source))
	}

	// Each section begins at its heading line.
	if source[sections[1].Start] != '#' {
		t.Errorf("section 1 does not start at its heading: %q", source[sections[1].Start])
	}
}

func TestDetectSectionsPlainText(t *testing.T) {
	source := []byte("Just a paragraph. No headings anywhere.")

	sections := DetectSections(source)
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(sections))
	}
	if sections[0].Title != "" || sections[0].Start != 0 || sections[0].End != len(source) {
		t.Errorf("unexpected section %+v", sections[0])
	}
}

func TestDetectSectionsEmpty(t *testing.T) {
	if got := DetectSections(nil); len(got) != 0 {
		t.Errorf("got %d sections for empty input, want 0", len(got))
	}
}

func TestDetectSectionsLeadingHeading(t *testing.T) {
	source := []byte("# Top\n\nBody.\n")

	sections := DetectSections(source)
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1 (no preamble)", len(sections))
	}
	if sections[0].Title != "Top" || sections[0].Start != 0 || sections[0].End != len(source) {
		t.Errorf("unexpected section %+v", sections[0])
	}
}

func TestSectionAt(t *testing.T) {
	source := []byte("# A\n\naaa.\n\n# B\n\nbbb.\n")
	sections := DetectSections(source)
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}

	if s := SectionAt(sections, 0); s == nil || s.Title != "A" {
		t.Errorf("offset 0 resolves to %+v, want section A", s)
	}
	if s := SectionAt(sections, sections[1].Start); s == nil || s.Title != "B" {
		t.Errorf("offset %d resolves to %+v, want section B", sections[1].Start, s)
	}
	if s := SectionAt(sections, len(source)); s != nil {
		t.Errorf("offset past EOF resolves to %+v, want nil", s)
	}
	if s := SectionAt(nil, 0); s != nil {
		t.Errorf("no sections resolves to %+v, want nil", s)
	}
}
