package analysis

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	hexColorRe = regexp.MustCompile(`#[0-9A-Fa-f]{6}`)
	keywordRe  = regexp.MustCompile(`["「]([^"」]+)["」]`)
)

// section labels the analyzer prompt asks for, used by the heuristic
// fallback when the model answered in prose instead of JSON.
var sectionLabels = map[string]*regexp.Regexp{
	"texture": sectionRe("質感"),
	"style":   sectionRe("スタイル"),
	"tone":    sectionRe("トーン"),
	"layout":  sectionRe("レイアウト"),
}

func sectionRe(label string) *regexp.Regexp {
	return regexp.MustCompile(label + `[：:]([^\n]+)`)
}

// Parse turns raw analyzer output into a Result.
//
// It is a two-stage pipeline: try the model's own JSON block first, then
// fall back to heuristic extraction from the prose. It never fails; the
// worst case is a Result carrying only the raw text and an error note.
// Same input always yields a structurally equal Result.
func Parse(text string) (*Result, Outcome) {
	if block, ok := jsonBlock(text); ok {
		if res, ok := parseStructured(block, text); ok {
			return res, OutcomeStructured
		}
	}

	res := parseHeuristic(text)
	if len(res.Colors) > 0 || res.Texture != "" || res.Style != "" ||
		res.Tone != "" || res.Layout != "" || len(res.MoodKeywords) > 0 {
		return res, OutcomePartial
	}

	return &Result{Raw: text, Error: "parse failed"}, OutcomeRawOnly
}

// jsonBlock returns the span from the first '{' to the last '}'. Known
// limitation: prose after the JSON containing a stray brace over-captures;
// the gjson validity check below rejects such spans and we degrade to
// heuristics instead.
func jsonBlock(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func parseStructured(block, raw string) (*Result, bool) {
	if !gjson.Valid(block) {
		return nil, false
	}

	parsed := gjson.Parse(block)
	if !parsed.IsObject() {
		return nil, false
	}

	res := &Result{Raw: raw}

	parsed.Get("colors").ForEach(func(_, v gjson.Result) bool {
		res.Colors = append(res.Colors, Color{
			Name: v.Get("name").String(),
			Hex:  v.Get("hex").String(),
			RGB:  v.Get("rgb").String(),
		})
		return true
	})

	res.Texture = parsed.Get("texture").String()
	res.Style = parsed.Get("style").String()
	res.Tone = parsed.Get("tone").String()
	res.Layout = parsed.Get("layout").String()

	parsed.Get("moodKeywords").ForEach(func(_, v gjson.Result) bool {
		res.MoodKeywords = append(res.MoodKeywords, v.String())
		return true
	})

	return res, true
}

func parseHeuristic(text string) *Result {
	res := &Result{Raw: text}

	for _, hex := range hexColorRe.FindAllString(text, -1) {
		res.Colors = append(res.Colors, Color{Hex: hex})
	}

	res.Texture = extractSection(text, sectionLabels["texture"])
	res.Style = extractSection(text, sectionLabels["style"])
	res.Tone = extractSection(text, sectionLabels["tone"])
	res.Layout = extractSection(text, sectionLabels["layout"])

	for _, m := range keywordRe.FindAllStringSubmatch(text, -1) {
		res.MoodKeywords = append(res.MoodKeywords, m[1])
	}

	return res
}

func extractSection(text string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
