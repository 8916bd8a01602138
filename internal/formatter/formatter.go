// package formatter parses the model's recommendation text into records and renders them as text,
// Markdown, JSON or a table.
package formatter

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/catalogai/internal/models"
	"github.com/desertthunder/catalogai/internal/shared"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Output formats accepted by [Render].
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatTable    = "table"
)

// Formats lists every supported output format.
var Formats = []string{FormatText, FormatMarkdown, FormatJSON, FormatTable}

// Report is the renderable view of one run: the genre and the records parsed from its raw text.
type Report struct {
	Titles          models.Titles           `json:"titles"`
	Genre           string                  `json:"genre"`
	Recommendations []models.Recommendation `json:"recommendations"`
	Dropped         int                     `json:"dropped,omitempty"`
}

// NewReport parses result.Raw. It fails with [shared.ErrNoRecommendations] when no block survives.
func NewReport(result *models.Result) (*Report, []*BlockError, error) {
	if result == nil {
		return nil, nil, fmt.Errorf("%w: empty result", shared.ErrNoRecommendations)
	}

	recs, errs := ParseRecommendations(result.Raw)
	if len(recs) == 0 {
		return nil, errs, fmt.Errorf("%w: %d malformed block(s)", shared.ErrNoRecommendations, len(errs))
	}

	return &Report{
		Titles:          result.Titles,
		Genre:           result.Genre,
		Recommendations: recs,
		Dropped:         len(errs),
	}, errs, nil
}

// Greeting renders the line shown above the result cards.
func Greeting(genre string) string {
	return fmt.Sprintf("Ah, então você curte %s! 🤩 Saca só essas recomendações:", genre)
}

// ToText renders a report as plain text, one card per recommendation.
func ToText(r *Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(Greeting(r.Genre) + "\n\n")
	for i, rec := range r.Recommendations {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(fmt.Sprintf("%s\n", rec.Heading()))
		buf.WriteString(fmt.Sprintf("  %s\n", rec.Synopsis))
		buf.WriteString(fmt.Sprintf("  %s: %s\n", Labels[3], rec.Chances))
	}

	return buf.Bytes(), nil
}

// ToMarkdown renders a report with a heading per recommendation, italic synopsis and bold likelihood label.
func ToMarkdown(r *Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(Greeting(r.Genre) + "\n\n")
	for _, rec := range r.Recommendations {
		buf.WriteString(fmt.Sprintf("## **%s**\n\n", rec.Heading()))
		buf.WriteString(fmt.Sprintf("_%s_\n\n", rec.Synopsis))
		buf.WriteString(fmt.Sprintf("**%s:** %s\n\n", Labels[3], rec.Chances))
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ToJSON renders a report as indented JSON.
func ToJSON(r *Report) ([]byte, error) {
	return shared.MarshalJSON(r, true)
}

// ToTable renders a report as a rounded table.
func ToTable(r *Report) ([]byte, error) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(fmt.Sprintf("Gênero: %s", r.Genre))
	tw.AppendHeader(table.Row{"#", Labels[0], Labels[1], Labels[3], Labels[2]})

	for i, rec := range r.Recommendations {
		tw.AppendRow(table.Row{i + 1, rec.Type, rec.Title, rec.Chances, rec.Synopsis})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, WidthMax: 60},
	})

	return []byte(tw.Render()), nil
}

// ParseFormat resolves a format name, accepting "md" for Markdown and "" for text.
func ParseFormat(name string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(name)); f {
	case FormatText, "":
		return FormatText, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatJSON, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (expected one of %s)", shared.ErrInvalidArgument, name, strings.Join(Formats, ", "))
	}
}

// Render dispatches on format.
func Render(r *Report, format string) ([]byte, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatMarkdown:
		return ToMarkdown(r)
	case FormatJSON:
		return ToJSON(r)
	case FormatTable:
		return ToTable(r)
	default:
		return ToText(r)
	}
}

// WriteReport renders a report and writes it to path.
func WriteReport(r *Report, format, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: output path required", shared.ErrMissingArgument)
	}

	data, err := Render(r, format)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
