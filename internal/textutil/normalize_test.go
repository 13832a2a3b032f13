package textutil

import (
	"testing"
	"unicode"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Name
	}{
		{
			name:  "polish diacritics",
			input: "zdjęcie.jpg",
			want:  Name{Full: "zdjecie.jpg", Stem: "zdjecie", Ext: "jpg"},
		},
		{
			name:  "uppercase diacritics keep extension case",
			input: "Żółć gęślą.JPG",
			want:  Name{Full: "Zolc_gesla.JPG", Stem: "Zolc_gesla", Ext: "JPG"},
		},
		{
			name:  "punctuation becomes underscore",
			input: "my file (1).txt",
			want:  Name{Full: "my_file__1_.txt", Stem: "my_file__1_", Ext: "txt"},
		},
		{
			name:  "only last dot splits",
			input: "archive.tar.gz",
			want:  Name{Full: "archive_tar.gz", Stem: "archive_tar", Ext: "gz"},
		},
		{
			name:  "no extension",
			input: "README",
			want:  Name{Full: "README", Stem: "README", Ext: ""},
		},
		{
			name:  "leading dot only",
			input: ".profile",
			want:  Name{Full: "_profile", Stem: "_profile", Ext: ""},
		},
		{
			name:  "hidden file with extension",
			input: ".x.jpg",
			want:  Name{Full: "_x.jpg", Stem: "_x", Ext: "jpg"},
		},
		{
			name:  "non polish letters are word characters",
			input: "café.png",
			want:  Name{Full: "café.png", Stem: "café", Ext: "png"},
		},
		{
			name:  "decomposed ogonek",
			input: "e\u0328.txt",
			want:  Name{Full: "e.txt", Stem: "e", Ext: "txt"},
		},
		{
			name:  "empty",
			input: "",
			want:  Name{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeName(tt.input)
			if got != tt.want {
				t.Fatalf("NormalizeName(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	inputs := []string{
		"zdjęcie.jpg",
		"Łódź – plan (final).pdf",
		"a b,c;d.docx",
		"..hidden",
		"tar.ball.tar",
		"żółw",
	}
	for _, input := range inputs {
		once := NormalizeName(input)
		twice := NormalizeName(once.Full)
		if twice.Full != once.Full {
			t.Errorf("not idempotent for %q: %q then %q", input, once.Full, twice.Full)
		}
	}
}

func TestNormalizeNameStemIsWordOnly(t *testing.T) {
	got := NormalizeName("Ąę ść-źż!@#$%^&().mp3")
	for _, r := range got.Stem {
		if !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			t.Fatalf("unexpected rune %q in stem %q", r, got.Stem)
		}
		if r > unicode.MaxASCII {
			t.Fatalf("polish input should normalize to ascii, got %q", got.Stem)
		}
	}
	if got.Ext != "mp3" {
		t.Fatalf("extension changed: %q", got.Ext)
	}
}

func TestNormalizerASCIIOnly(t *testing.T) {
	n := Normalizer{ASCIIOnly: true}

	got := n.Normalize("café.png")
	if got.Full != "cafe.png" {
		t.Fatalf("Normalize(café.png) = %q, want cafe.png", got.Full)
	}

	cjk := n.Normalize("日本.txt")
	for _, r := range cjk.Stem {
		if r > unicode.MaxASCII {
			t.Fatalf("expected ascii stem, got %q", cjk.Stem)
		}
	}
	if again := n.Normalize(cjk.Full); again.Full != cjk.Full {
		t.Fatalf("ascii normalization not idempotent: %q then %q", cjk.Full, again.Full)
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"photo.JPG": "jpg",
		"a.tar.gz":  "gz",
		"noext":     "",
		".bashrc":   "",
	}
	for input, want := range tests {
		if got := Extension(input); got != want {
			t.Errorf("Extension(%q) = %q, want %q", input, got, want)
		}
	}
}
