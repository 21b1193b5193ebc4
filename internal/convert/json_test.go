package convert

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"kslingo/internal/services"
)

func TestWriteJSONFixedSchema(t *testing.T) {
	langs := testLanguages()
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleDocument(), langs); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var payload []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload) != 2 {
		t.Fatalf("sections = %d", len(payload))
	}
	category := payload[0]["category"].(map[string]any)
	for _, lang := range langs.Supported {
		if _, ok := category[lang]; !ok {
			t.Fatalf("category missing language %q", lang)
		}
	}
	if category["en"] != "Greetings" || category["sr"] != "Pozdravi" || category["hu"] != "" {
		t.Fatalf("category = %v", category)
	}
	phrases := payload[0]["phrases"].([]any)
	first := phrases[0].(map[string]any)
	if first["level"] != "A1" || first["enabled"] != true || first["isword"] != false {
		t.Fatalf("first phrase = %v", first)
	}
	if err := validateJSON(buf.Bytes()); err != nil {
		t.Fatalf("written JSON fails schema: %v", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	langs := testLanguages()
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleDocument(), langs); err != nil {
		t.Fatal(err)
	}
	doc, err := ReadJSON(&buf, langs)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(doc.Sections) != 2 || doc.Sections[0].Title != "Greetings - Pozdravi" {
		t.Fatalf("document = %+v", doc)
	}
	phrases := doc.Sections[0].Phrases
	if len(phrases) != 3 {
		t.Fatalf("phrases = %d", len(phrases))
	}
	if phrases[0].OnlyLearn || phrases[0].TextFor("sr") != "Zdravo" {
		t.Fatalf("pair = %+v", phrases[0])
	}
	if !phrases[1].OnlyLearn || phrases[1].TextFor("en") != "Goodbye" {
		t.Fatalf("only-learn = %+v", phrases[1])
	}
	// A pair missing its native side has a single translation and reads
	// back as only-learn.
	if !phrases[2].OnlyLearn {
		t.Fatalf("single translation = %+v", phrases[2])
	}
}

func TestReadJSONRejectsInvalidPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not an array", `{"category": {}}`},
		{"missing phrases", `[{"category": {"en": "A"}}]`},
		{"bad level", `[{"category": {}, "phrases": [{"level": "", "enabled": true, "isword": true, "translations": {}}]}]`},
		{"wrong type", `[{"category": {}, "phrases": [{"level": "A1", "enabled": "yes", "isword": true, "translations": {}}]}]`},
		{"malformed", `[{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.payload), testLanguages())
			if !errors.Is(err, services.ErrInvalidFormat) {
				t.Fatalf("err = %v, want ErrInvalidFormat", err)
			}
		})
	}
}

func TestReadJSONReportsIssues(t *testing.T) {
	payload := `[{"category": {}, "phrases": [{"level": "A1", "enabled": 1, "isword": true, "translations": {}}]}]`
	_, err := ReadJSON(strings.NewReader(payload), testLanguages())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if len(verr.Issues) == 0 || !strings.Contains(verr.Issues[0].Location, "/phrases/0/enabled") {
		t.Fatalf("issues = %+v", verr.Issues)
	}
}
