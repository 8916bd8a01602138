package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/catalogai/internal/models"
	"github.com/desertthunder/catalogai/internal/shared"
	tu "github.com/desertthunder/catalogai/internal/testing"
	"github.com/google/go-cmp/cmp"
)

func sampleReport() *Report {
	return &Report{
		Titles: models.Titles{"Stranger Things", "Naruto"},
		Genre:  "Fantasia",
		Recommendations: []models.Recommendation{
			{Type: "Filme", Kind: models.KindMovie, Title: "Akira", Synopsis: "Motoqueiros em Neo-Tóquio.", Chances: "Alta", Likelihood: models.LikelihoodHigh},
			{Type: "Série", Kind: models.KindSeries, Title: "Dark", Synopsis: "Viagens no tempo.", Chances: "Média", Likelihood: models.LikelihoodMedium},
		},
	}
}

func TestNewReport(t *testing.T) {
	t.Run("Drops Malformed Blocks", func(t *testing.T) {
		raw := wellFormed + "\n===\nTipo: Filme\nTítulo: Sem sinopse\n==="
		report, errs, err := NewReport(&models.Result{Genre: "Terror", Raw: raw})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(report.Recommendations) != 3 || report.Dropped != 1 || len(errs) != 1 {
			t.Errorf("expected 3 records and 1 dropped, got %d and %d", len(report.Recommendations), report.Dropped)
		}
	})

	t.Run("All Malformed", func(t *testing.T) {
		_, errs, err := NewReport(&models.Result{Genre: "Terror", Raw: "Desculpe, não posso ajudar."})
		if !errors.Is(err, shared.ErrNoRecommendations) {
			t.Errorf("expected ErrNoRecommendations, got %v", err)
		}
		if len(errs) != 1 {
			t.Errorf("expected 1 block error, got %d", len(errs))
		}
	})

	t.Run("Nil Result", func(t *testing.T) {
		if _, _, err := NewReport(nil); !errors.Is(err, shared.ErrNoRecommendations) {
			t.Errorf("expected ErrNoRecommendations, got %v", err)
		}
	})
}

func TestRenderers(t *testing.T) {
	report := sampleReport()

	t.Run("ToText", func(t *testing.T) {
		data, _ := ToText(report)
		output := string(data)
		for _, want := range []string{
			"Ah, então você curte Fantasia! 🤩 Saca só essas recomendações:",
			"Filme: Akira",
			"Chances de Você Gostar: Média",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in output:\n%s", want, output)
			}
		}
	})

	t.Run("ToMarkdown", func(t *testing.T) {
		data, _ := ToMarkdown(report)
		output := string(data)
		for _, want := range []string{
			"## **Filme: Akira**",
			"_Motoqueiros em Neo-Tóquio._",
			"**Chances de Você Gostar:** Alta",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in output:\n%s", want, output)
			}
		}
	})

	t.Run("ToJSON", func(t *testing.T) {
		data, err := ToJSON(report)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var decoded struct {
			Genre           string `json:"genre"`
			Recommendations []struct {
				Title string `json:"title"`
			} `json:"recommendations"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Genre != "Fantasia" || len(decoded.Recommendations) != 2 || decoded.Recommendations[1].Title != "Dark" {
			t.Errorf("unexpected JSON: %s", data)
		}
	})

	t.Run("ToTable", func(t *testing.T) {
		data, _ := ToTable(report)
		output := string(data)
		for _, want := range []string{"Gênero: Fantasia", "Akira", "Dark", "╭"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in table:\n%s", want, output)
			}
		}
	})

	t.Run("Render Is Deterministic", func(t *testing.T) {
		for _, format := range Formats {
			a, err := Render(report, format)
			if err != nil {
				t.Fatalf("%s: expected no error, got %v", format, err)
			}
			b, _ := Render(report, format)
			if diff := cmp.Diff(string(a), string(b)); diff != "" {
				t.Errorf("%s: output changed between renders (-first +second):\n%s", format, diff)
			}
		}
	})

	t.Run("Render Unknown Format", func(t *testing.T) {
		if _, err := Render(report, "yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Empty Defaults To Text", "", FormatText},
		{"Markdown Alias", "md", FormatMarkdown},
		{"Case Insensitive", " JSON ", FormatJSON},
		{"Table", "table", FormatTable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		if _, err := ParseFormat("csv"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestWriteReport(t *testing.T) {
	t.Run("Writes File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "recs.md")
		got, err := WriteReport(sampleReport(), FormatMarkdown, path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, got)
		if !strings.Contains(tu.MustReadFile(t, got), "## **Série: Dark**") {
			t.Error("expected markdown content in file")
		}
	})

	t.Run("Missing Path", func(t *testing.T) {
		if _, err := WriteReport(sampleReport(), FormatText, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Unwritable Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "recs.txt")
		if _, err := WriteReport(sampleReport(), FormatText, path); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}
