package types

import "strings"

// DocInfo is the parsed form of a tool's doc comment.
type DocInfo struct {
	Description string
	Params      map[string]string
}

var paramSectionLabels = []string{
	"params",
	"parameters",
	"args",
	"arguments",
	"参数",
}

var terminatorLabels = []string{
	"returns",
	"return",
	"examples",
	"example",
	"notes",
	"note",
	"raises",
	"supported operators",
	"返回",
	"示例",
	"注意",
	"支持的操作符",
}

const (
	fullWidthColon = "："
	asciiColon     = ":"
)

// ParseDoc splits a doc comment into a main description and per-parameter
// descriptions. It never fails; malformed input yields partial results.
//
// Lines before a parameter section header form the description, one paragraph
// per non-blank line. Inside the section each "name: description" line records
// a parameter and a line without a separator continues the previous one.
// Scanning stops at the first terminating header such as "Returns:".
func ParseDoc(doc string) DocInfo {
	info := DocInfo{Params: make(map[string]string)}
	if strings.TrimSpace(doc) == "" {
		return info
	}

	var paragraphs []string
	inParams := false
	current := ""

	for rawLine := range strings.Lines(doc) {
		line := strings.TrimSpace(rawLine)

		if !inParams {
			if isSectionHeader(line, paramSectionLabels) {
				inParams = true
				continue
			}
			if line != "" {
				paragraphs = append(paragraphs, line)
			}
			continue
		}

		if line == "" {
			continue
		}
		if isSectionHeader(line, terminatorLabels) {
			break
		}
		// A bare repeated header is skipped; "args: ..." may name a parameter.
		if rest, ok := sectionHeader(line, paramSectionLabels); ok && rest == "" {
			continue
		}

		name, desc, ok := splitParamLine(line)
		if !ok {
			if current != "" {
				info.Params[current] = appendContinuation(info.Params[current], line)
			}
			continue
		}
		if name == "" {
			continue
		}
		info.Params[name] = desc
		current = name
	}

	info.Description = strings.Join(paragraphs, "\n\n")
	return info
}

// isSectionHeader reports whether line starts with one of labels followed by a colon.
func isSectionHeader(line string, labels []string) bool {
	_, ok := sectionHeader(line, labels)
	return ok
}

// sectionHeader matches like isSectionHeader and also returns the trimmed
// text after the colon.
func sectionHeader(line string, labels []string) (string, bool) {
	lower := strings.ToLower(line)
	for _, label := range labels {
		rest, found := strings.CutPrefix(lower, label)
		if !found {
			continue
		}
		for _, colon := range []string{asciiColon, fullWidthColon} {
			if after, ok := strings.CutPrefix(rest, colon); ok {
				return strings.TrimSpace(after), true
			}
		}
	}
	return "", false
}

func splitParamLine(line string) (string, string, bool) {
	sep := asciiColon
	if strings.Contains(line, fullWidthColon) {
		sep = fullWidthColon
	}
	name, desc, found := strings.Cut(line, sep)
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(name), strings.TrimSpace(desc), true
}

func appendContinuation(desc, line string) string {
	if desc == "" {
		return line
	}
	return desc + " " + line
}
