package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/subosito/gotenv"
)

func TestDefault(t *testing.T) {
	s := Default()
	if !s.IncludeSentenceText || !s.UseBuiltInSentenceSplitter {
		t.Fatalf("expected both defaults to be true, got %+v", s)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, includeText := range []bool{true, false} {
		for _, builtIn := range []bool{true, false} {
			want := Settings{IncludeSentenceText: includeText, UseBuiltInSentenceSplitter: builtIn}

			var got Settings
			if err := got.Import(want.Export()); err != nil {
				t.Fatalf("Import: %v", err)
			}
			if got != want {
				t.Errorf("round trip of %+v gave %+v", want, got)
			}
		}
	}
}

func TestExportValues(t *testing.T) {
	dict := Settings{IncludeSentenceText: false, UseBuiltInSentenceSplitter: true}.Export()
	if dict[KEY_INCLUDE_SENTENCE_TEXT] != "false" {
		t.Errorf("%s = %q", KEY_INCLUDE_SENTENCE_TEXT, dict[KEY_INCLUDE_SENTENCE_TEXT])
	}
	if dict[KEY_BUILT_IN_SPLITTER] != "true" {
		t.Errorf("%s = %q", KEY_BUILT_IN_SPLITTER, dict[KEY_BUILT_IN_SPLITTER])
	}
}

func TestImportAcceptsLegacySpelling(t *testing.T) {
	var s Settings
	err := s.Import(map[string]string{
		KEY_INCLUDE_SENTENCE_TEXT: "False",
		KEY_BUILT_IN_SPLITTER:     "True",
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if s.IncludeSentenceText || !s.UseBuiltInSentenceSplitter {
		t.Fatalf("unexpected settings %+v", s)
	}
}

func TestImportErrorsLeaveSettingsUntouched(t *testing.T) {
	tests := []struct {
		name    string
		dict    map[string]string
		missing bool
	}{
		{"missing splitter key", map[string]string{KEY_INCLUDE_SENTENCE_TEXT: "false"}, true},
		{"missing text key", map[string]string{KEY_BUILT_IN_SPLITTER: "false"}, true},
		{"bad value", map[string]string{KEY_INCLUDE_SENTENCE_TEXT: "false", KEY_BUILT_IN_SPLITTER: "maybe"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			err := s.Import(tt.dict)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrMissingSetting) != tt.missing {
				t.Errorf("errors.Is(err, ErrMissingSetting) = %v, want %v (err: %v)", !tt.missing, tt.missing, err)
			}
			if s != Default() {
				t.Errorf("settings changed on error: %+v", s)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "settings.env")
	want := Settings{IncludeSentenceText: false, UseBuiltInSentenceSplitter: false}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != Default() {
		t.Fatalf("Load = %+v, want defaults", got)
	}
}

func TestLoadRejectsIncompleteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.env")
	if err := os.WriteFile(path, []byte("IncludeSentenceText=false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrMissingSetting) {
		t.Fatalf("expected ErrMissingSetting, got %v", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.env")); !errors.Is(err, ErrNoSettingsFile) {
		t.Fatalf("expected ErrNoSettingsFile, got %v", err)
	}
}

func TestMarshalIsDotenv(t *testing.T) {
	want := Settings{IncludeSentenceText: true, UseBuiltInSentenceSplitter: false}
	text, err := Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	env, err := gotenv.StrictParse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	var got Settings
	if err := got.Import(env); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
