package checker

import (
	"reflect"
	"testing"

	"github.com/olegrjumin/siteaudit/internal/catalog"
)

func TestCountMissingAlt(t *testing.T) {
	meaningless := catalog.Default().MeaninglessAlt

	tests := []struct {
		name string
		html string
		want int
	}{
		{
			name: "missing and generic",
			html: `<img src="a.jpg"><img src="b.jpg" alt="image"><img src="c.jpg" alt="Sunset over the lake">`,
			want: 2,
		},
		{
			name: "decorative images skipped",
			html: `<img src="a.jpg" alt=""><img src="b.jpg" role="presentation"><img src="c.jpg" role="none" alt="photo">`,
			want: 0,
		},
		{
			name: "whitespace and filenames",
			html: `<img src="a.jpg" alt="   "><img src="b.jpg" alt="DSC_0042"><img src="c.jpg" alt="hero.png"><img src="d.jpg" alt="12345">`,
			want: 4,
		},
		{
			name: "call to action",
			html: `<img src="a.jpg" alt="Click here"><img src="b.jpg" alt="Team photo at the 2024 retreat">`,
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument("<html><body>" + tt.html + "</body></html>")
			if got := CountMissingAlt(doc, meaningless); got != tt.want {
				t.Errorf("CountMissingAlt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHeadingHierarchy(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "skipped level",
			html: `<h1>Title</h1><h3>Details</h3>`,
			want: []string{"Heading level skipped: H1 to H3"},
		},
		{
			name: "no headings",
			html: `<p>text</p>`,
			want: []string{"No headings found on the page", "No H1 heading found"},
		},
		{
			name: "no h1",
			html: `<h2>Section</h2><h3>Sub</h3>`,
			want: []string{"No H1 heading found"},
		},
		{
			name: "multiple h1 and empty",
			html: `<h1>One</h1><h1>Two</h1><h2></h2>`,
			want: []string{"Multiple H1 headings found (2)", "Empty H2 heading"},
		},
		{
			name: "going back up is fine",
			html: `<h1>A</h1><h2>B</h2><h3>C</h3><h2>D</h2>`,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument("<html><body>" + tt.html + "</body></html>")
			got := CheckHeadingHierarchy(ExtractHeadings(doc))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CheckHeadingHierarchy() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCountMissingAccessibleNames(t *testing.T) {
	tests := []struct {
		name string
		html string
		want int
	}{
		{
			name: "labelled controls",
			html: `<label for="email">Email</label><input id="email" type="email">
				<input type="search" aria-label="Search">
				<label>Name <input type="text"></label>
				<input type="hidden" name="token"><input type="submit" value="Go">`,
			want: 0,
		},
		{
			name: "unlabelled controls",
			html: `<input type="text" id="q"><select></select><textarea aria-label="  "></textarea>`,
			want: 3,
		},
		{
			name: "buttons",
			html: `<button>Save</button><button aria-labelledby="t1"></button><button><svg></svg></button>`,
			want: 1,
		},
		{
			name: "links",
			html: `<a href="/a">Home</a><a href="/b" title="Profile"><img src="p.png"></a><a href="/c"><i class="icon"></i></a><a name="anchor"></a>`,
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument("<html><body>" + tt.html + "</body></html>")
			if got := CountMissingAccessibleNames(doc); got != tt.want {
				t.Errorf("CountMissingAccessibleNames() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAccessibilityScoreCaps(t *testing.T) {
	tests := []struct {
		alt, headings, names int
		want                 int
	}{
		{0, 0, 0, 100},
		{2, 1, 0, 80},
		{100, 0, 0, 60},
		{0, 100, 0, 70},
		{0, 0, 100, 70},
		{100, 100, 100, 0},
	}
	for _, tt := range tests {
		got := CalculateAccessibilityScore(tt.alt, tt.headings, tt.names)
		if got != tt.want {
			t.Errorf("CalculateAccessibilityScore(%d, %d, %d) = %d, want %d", tt.alt, tt.headings, tt.names, got, tt.want)
		}
	}
}

func TestAnalyzeAccessibility(t *testing.T) {
	doc := NewDocument(`<html><body>
		<h1>Gallery</h1><h3>Lake</h3>
		<img src="a.jpg"><img src="b.jpg" alt="image"><img src="c.jpg" alt="Sunset over the lake">
		<button></button>
	</body></html>`)

	result := AnalyzeAccessibility(doc, Input{})

	if result.MissingAltImages != 2 {
		t.Errorf("Expected 2 missing alt images, got %d", result.MissingAltImages)
	}
	if len(result.HeadingIssues) != 1 {
		t.Errorf("Expected 1 heading issue, got %q", result.HeadingIssues)
	}
	if result.MissingAccessibleNames != 1 {
		t.Errorf("Expected 1 missing accessible name, got %d", result.MissingAccessibleNames)
	}
	if result.Score != 100-10-10-3 {
		t.Errorf("Expected score 77, got %d", result.Score)
	}
}
