package utility

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/slighter12/mcp-toolserver-go/tools/types"
)

const textAnalyzerDoc = `Compute simple statistics or a short summary of a text.

Args:
    text: the text to analyse
    operation: "stats" for counts or "summary" for the first three sentences
`

const maxSummarySentences = 3

type TextAnalyzerParams struct {
	Text      string  `json:"text"`
	Operation *string `json:"operation"`
}

func NewTextAnalyzerTool() types.Tool {
	return types.New("text_analyzer", textAnalyzerDoc, func(_ context.Context, p TextAnalyzerParams) (any, error) {
		switch operation := stringOr(p.Operation, "stats"); operation {
		case "stats":
			return textStats(p.Text), nil
		case "summary":
			return textSummary(p.Text), nil
		default:
			return map[string]any{
				"error":                fmt.Sprintf("unsupported operation: %s", operation),
				"supported_operations": []string{"stats", "summary"},
			}, nil
		}
	})
}

func textStats(text string) map[string]any {
	words := strings.Fields(text)
	letters := 0
	for _, w := range words {
		letters += utf8.RuneCountInString(w)
	}
	average := 0.0
	if len(words) > 0 {
		average = round(float64(letters)/float64(len(words)), 2)
	}

	language := "english"
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			language = "chinese"
			break
		}
	}

	return map[string]any{
		"character_count":     utf8.RuneCountInString(text),
		"word_count":          len(words),
		"sentence_count":      strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?"),
		"average_word_length": average,
		"language":            language,
	}
}

func textSummary(text string) map[string]any {
	normalised := strings.NewReplacer("!", ".", "?", ".").Replace(text)
	var sentences []string
	for s := range strings.SplitSeq(normalised, ".") {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}

	var summary string
	if len(sentences) > 0 {
		summary = strings.Join(sentences[:min(len(sentences), maxSummarySentences)], ". ") + "."
	} else {
		runes := []rune(text)
		summary = string(runes[:min(len(runes), 100)])
	}

	length := utf8.RuneCountInString(text)
	ratio := 0.0
	if length > 0 {
		ratio = round(float64(utf8.RuneCountInString(summary))/float64(length)*100, 2)
	}
	return map[string]any{
		"summary":           summary,
		"original_length":   length,
		"summary_length":    utf8.RuneCountInString(summary),
		"compression_ratio": ratio,
	}
}
