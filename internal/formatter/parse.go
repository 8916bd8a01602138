package formatter

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/desertthunder/catalogai/internal/models"
	"github.com/desertthunder/catalogai/internal/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Delimiter separates recommendation blocks in the model's answer.
const Delimiter = "==="

// Labels expected on the four lines of a block, in order.
var Labels = [4]string{"Tipo", "Título", "Sinopse", "Chances de Você Gostar"}

var labelKeys = [4]string{normalize(Labels[0]), normalize(Labels[1]), normalize(Labels[2]), normalize(Labels[3])}

// BlockError reports a recommendation block that could not be parsed.
//
// Index is 0-based over the non-blank segments of the answer, not counting a skipped preamble.
type BlockError struct {
	Index  int
	Reason string
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("%v: block %d: %s", shared.ErrMalformedBlock, e.Index+1, e.Reason)
}

func (e *BlockError) Unwrap() error { return shared.ErrMalformedBlock }

// ParseRecommendations splits raw on [Delimiter] and parses every non-blank segment.
//
// Malformed blocks are reported in errs and skipped; the remaining blocks keep their order.
// A leading segment without any known label, followed by a delimiter, is a preamble and is dropped silently.
func ParseRecommendations(raw string) (recs []models.Recommendation, errs []*BlockError) {
	delimited := strings.Contains(raw, Delimiter)
	index := 0
	for segment := range strings.SplitSeq(raw, Delimiter) {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		if index == 0 && delimited && !hasLabel(segment) {
			continue
		}

		rec, err := ParseBlock(index, segment)
		if err != nil {
			errs = append(errs, err)
		} else {
			recs = append(recs, rec)
		}
		index++
	}
	return recs, errs
}

// ParseBlock parses one segment holding exactly four "Label: value" lines.
func ParseBlock(index int, block string) (models.Recommendation, *BlockError) {
	fail := func(format string, args ...any) (models.Recommendation, *BlockError) {
		return models.Recommendation{}, &BlockError{Index: index, Reason: fmt.Sprintf(format, args...)}
	}

	var lines []string
	for line := range strings.SplitSeq(block, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) != len(Labels) {
		return fail("expected %d lines, got %d", len(Labels), len(lines))
	}

	var values [4]string
	for i, line := range lines {
		label, value, ok := splitLine(line)
		if !ok {
			return fail("line %d: missing ':'", i+1)
		}
		if normalize(label) != labelKeys[i] {
			return fail("line %d: expected label %q, got %q", i+1, Labels[i], cleanLabel(label))
		}
		if value == "" {
			return fail("empty value for %s", Labels[i])
		}
		values[i] = value
	}

	rec := models.Recommendation{
		Type:     values[0],
		Title:    values[1],
		Synopsis: values[2],
		Chances:  values[3],
	}

	rec.Kind = ParseKind(rec.Type)
	if rec.Kind == models.KindUnknown {
		return fail("unknown type %q", rec.Type)
	}
	rec.Likelihood = ParseLikelihood(rec.Chances)
	if rec.Likelihood == models.LikelihoodUnknown {
		return fail("unknown likelihood %q", rec.Chances)
	}
	return rec, nil
}

// hasLabel reports whether any line of segment starts with one of [Labels].
func hasLabel(segment string) bool {
	for line := range strings.SplitSeq(segment, "\n") {
		label, _, ok := splitLine(line)
		if !ok {
			continue
		}
		key := normalize(label)
		for _, want := range labelKeys {
			if key == want {
				return true
			}
		}
	}
	return false
}

// splitLine cuts at the first colon. Emphasis closing after the colon ("**Tipo:** Filme") stays with the label.
func splitLine(line string) (label, value string, ok bool) {
	label, value, ok = strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}

	value = strings.TrimSpace(value)
	if strings.Contains(label, "**") && strings.HasPrefix(value, "**") {
		value = strings.TrimSpace(strings.TrimPrefix(value, "**"))
	}
	return label, value, true
}

// cleanLabel drops list bullets and emphasis markers around a label.
func cleanLabel(label string) string {
	label = strings.TrimSpace(label)
	label = strings.TrimLeft(label, "*-•_ \t")
	label = strings.TrimRight(label, "*_ \t")
	return strings.TrimSpace(label)
}

// normalize folds case and removes accents so "TÍTULO" and "titulo" compare equal.
// Transformers are stateful, so each call builds its own.
func normalize(s string) string {
	s = cleanLabel(s)
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(stripAccents, s); err == nil {
		s = out
	}
	return strings.Join(strings.Fields(cases.Fold().String(s)), " ")
}

func normalizeValue(s string) string {
	return strings.TrimRight(normalize(s), ".!")
}

// ParseKind maps a type value (Portuguese or English) to a [models.Kind].
func ParseKind(s string) models.Kind {
	switch normalizeValue(s) {
	case "filme", "movie", "film":
		return models.KindMovie
	case "anime":
		return models.KindAnime
	case "serie", "series", "tv series", "show", "tv show":
		return models.KindSeries
	default:
		return models.KindUnknown
	}
}

// ParseLikelihood maps a likelihood value (Portuguese or English) to a [models.Likelihood].
func ParseLikelihood(s string) models.Likelihood {
	switch normalizeValue(s) {
	case "alta", "high":
		return models.LikelihoodHigh
	case "media", "medium":
		return models.LikelihoodMedium
	case "baixa", "low":
		return models.LikelihoodLow
	default:
		return models.LikelihoodUnknown
	}
}
