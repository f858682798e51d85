package quiz

import "testing"

func TestDeriveSlugNormalizesTitle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		title string
		want  string
	}{
		{name: "simple", title: "Geography", want: "geography"},
		{name: "spaces become hyphens", title: "My Title", want: "my-title"},
		{name: "surrounding whitespace trimmed", title: "  My Title  ", want: "my-title"},
		{name: "whitespace runs collapse", title: "My \t  Title", want: "my-title"},
		{name: "uppercase lowered", title: "HTML & CSS", want: "html-&-css"},
		{name: "empty", title: "", want: ""},
		{name: "whitespace only", title: " \t ", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := DeriveSlug(tc.title); got != tc.want {
				t.Fatalf("DeriveSlug(%q) = %q, want %q", tc.title, got, tc.want)
			}
		})
	}
}

func TestDeriveSlugIdempotentOnNormalizedInput(t *testing.T) {
	t.Parallel()

	for _, title := range []string{"my-title", "geography", "html-basics", ""} {
		once := DeriveSlug(title)
		if twice := DeriveSlug(once); twice != once {
			t.Fatalf("DeriveSlug not idempotent for %q: %q != %q", title, twice, once)
		}
	}
}

func TestDeriveSlugEquivalentTitlesShareSlug(t *testing.T) {
	t.Parallel()

	if DeriveSlug(" My Title ") != DeriveSlug("My Title") {
		t.Fatalf("expected equivalent titles to derive the same slug")
	}
}
