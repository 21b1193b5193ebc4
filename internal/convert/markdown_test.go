package convert

import (
	"bytes"
	"strings"
	"testing"

	"kslingo/internal/mdparse"
	"kslingo/internal/phrase"
)

func testLanguages() phrase.Languages {
	return phrase.NewLanguages("en", "sr", nil)
}

func sampleDocument() phrase.Document {
	langs := testLanguages()
	return phrase.Document{Sections: []phrase.Section{
		{
			Title: "Greetings - Pozdravi",
			Phrases: []phrase.Phrase{
				phrase.NewPair(phrase.FlagSet{Level: "A1", IsWord: false, Enabled: true}, langs, "Hello", "Zdravo"),
				phrase.NewLearnOnly(langs, "Goodbye"),
				phrase.NewPair(phrase.DefaultFlags(), langs, "Broken", ""),
			},
		},
		{
			Title: "Words - Reči",
			Phrases: []phrase.Phrase{
				phrase.NewPair(phrase.DefaultFlags(), langs, "team-mate", "saigrač"),
			},
		},
	}}
}

func TestWriteMarkdown(t *testing.T) {
	got, err := MarkdownBytes(sampleDocument(), testLanguages())
	if err != nil {
		t.Fatalf("MarkdownBytes: %v", err)
	}
	want := `### Greetings - Pozdravi
- %%A1,P,E%% **Hello** - Zdravo
- Goodbye

### Words - Reči
- %%A2,W,D%% team-mate - saigrač
`
	if string(got) != want {
		t.Fatalf("markdown mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestMarkdownRoundTrip(t *testing.T) {
	langs := testLanguages()
	first, err := MarkdownBytes(sampleDocument(), langs)
	if err != nil {
		t.Fatal(err)
	}
	res, err := mdparse.Parse(bytes.NewReader(first), langs)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("warnings: %v", res.Warnings)
	}
	second, err := MarkdownBytes(res.Document, langs)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("round trip changed output\nfirst:\n%s\nsecond:\n%s", first, second)
	}

	hello := res.Document.Sections[0].Phrases[0]
	if hello.Flags != (phrase.FlagSet{Level: "A1", IsWord: false, Enabled: true}) {
		t.Fatalf("flags lost: %+v", hello.Flags)
	}
	if !res.Document.Sections[0].Phrases[1].OnlyLearn {
		t.Fatal("only-learn phrase lost")
	}
}

func TestAddFlagPrefix(t *testing.T) {
	input := "### Greetings - Pozdravi\n- Hello - Zdravo\n- %%B1,P,E%% Thanks - Hvala\n- Goodbye\n```\n- code - kod\n```\n  - nested – ugnežđeno\n"
	var out strings.Builder
	n, err := AddFlagPrefix(strings.NewReader(input), &out, "")
	if err != nil {
		t.Fatalf("AddFlagPrefix: %v", err)
	}
	if n != 2 {
		t.Fatalf("tagged = %d, want 2", n)
	}
	want := "### Greetings - Pozdravi\n- %%A2,W,D%% Hello - Zdravo\n- %%B1,P,E%% Thanks - Hvala\n- Goodbye\n```\n- code - kod\n```\n  - %%A2,W,D%% nested – ugnežđeno\n"
	if out.String() != want {
		t.Fatalf("output mismatch\n got: %q\nwant: %q", out.String(), want)
	}
}

func TestAddFlagPrefixRejectsInvalidPrefix(t *testing.T) {
	var out strings.Builder
	if _, err := AddFlagPrefix(strings.NewReader("- a - b\n"), &out, "%%A2,W%%"); err == nil {
		t.Fatal("expected invalid prefix error")
	}
}
