package analysis

import (
	"strings"
	"unicode/utf8"
)

// domainSuffix pins every query to the interior-design domain; it is also
// the floor for axes with nothing usable in the analysis result.
const domainSuffix = "インテリア デザイン"

const layoutToken = "レイアウト"

// styleVocabulary holds style names preferred verbatim over the generic
// keyword extractor when one appears in the texture/style text.
var styleVocabulary = []string{
	"モダン", "ナチュラル", "ミニマル", "シンプル", "クラシック",
	"北欧", "スカンジナビア", "インダストリアル", "ボヘミアン",
	"ビンテージ", "レトロ", "コンテンポラリー", "ラグジュアリー",
}

// stopRunes maps punctuation, particles, and copula fragments to spaces
// before keyword extraction. Long descriptive sentences degrade search
// recall, so only the content words survive.
var stopRunes = strings.NewReplacer(
	"。", " ", "、", " ", "，", " ", "．", " ", "！", " ", "？", " ",
	"です", " ", "ます", " ", "である", " ",
	"に", " ", "は", " ", "が", " ", "を", " ", "の", " ",
	"と", " ", "で", " ", "て", " ", "から", " ", "まで", " ", "より", " ",
)

// QueryOptions carries caller-supplied query shaping that is not derived
// from the analysis itself.
type QueryOptions struct {
	// SitePrefix, when non-empty, prepends a "site:<domain>" restriction
	// to bias results toward a preferred image host.
	SitePrefix string
}

// BuildQuery derives a search query from an analysis result and an axis.
// Pure and deterministic; the domain suffix guarantees a non-empty query
// on every path.
func BuildQuery(res *Result, axis Axis, opts QueryOptions) string {
	if res == nil {
		res = &Result{}
	}

	var base string
	switch axis {
	case AxisColor:
		base = colorQuery(res)
	case AxisTexture:
		base = textureQuery(res)
	case AxisTone:
		base = toneQuery(res)
	case AxisLayout:
		base = layoutQuery(res)
	default:
		base = domainSuffix
	}

	if opts.SitePrefix != "" {
		return "site:" + opts.SitePrefix + " " + base
	}
	return base
}

func colorQuery(res *Result) string {
	if len(res.Colors) == 0 {
		return domainSuffix
	}

	names := make([]string, 0, 3)
	for _, c := range res.Colors {
		if len(names) == 3 {
			break
		}
		switch {
		case c.Name != "":
			names = append(names, c.Name)
		case c.Hex != "":
			names = append(names, c.Hex)
		}
	}
	if len(names) == 0 {
		return domainSuffix
	}
	return strings.Join(names, " ") + " " + domainSuffix
}

func textureQuery(res *Result) string {
	text := res.Texture
	if text == "" {
		text = res.Style
	}
	if text == "" {
		return domainSuffix
	}

	// A known style name beats the generic extractor, unless the "name"
	// is the whole sentence.
	if style := matchStyle(text); style != "" && style != text {
		return style + " " + domainSuffix
	}

	if kw := extractKeywords(text, 2); kw != "" {
		return kw + " " + domainSuffix
	}
	return domainSuffix
}

func toneQuery(res *Result) string {
	if len(res.MoodKeywords) > 0 {
		n := len(res.MoodKeywords)
		if n > 3 {
			n = 3
		}
		return strings.Join(res.MoodKeywords[:n], " ") + " " + domainSuffix
	}

	if kw := extractKeywords(res.Tone, 2); kw != "" {
		return kw + " " + domainSuffix
	}
	return domainSuffix
}

func layoutQuery(res *Result) string {
	if kw := extractKeywords(res.Layout, 2); kw != "" {
		return kw + " " + layoutToken + " " + domainSuffix
	}
	return layoutToken + " " + domainSuffix
}

func matchStyle(text string) string {
	for _, style := range styleVocabulary {
		if strings.Contains(text, style) {
			return style
		}
	}
	return ""
}

// extractKeywords pulls up to maxWords short content words out of a
// free-text description. Words longer than 10 runes are discarded as
// sentence fragments rather than keywords.
func extractKeywords(text string, maxWords int) string {
	if text == "" {
		return ""
	}

	words := make([]string, 0, maxWords)
	for _, w := range strings.Fields(stopRunes.Replace(text)) {
		if utf8.RuneCountInString(w) > 10 {
			continue
		}
		words = append(words, w)
		if len(words) == maxWords {
			break
		}
	}
	return strings.Join(words, " ")
}
