package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"rankwatch/internal/domain"
)

// sp matches any run of spacing a page may put between tokens, including
// NBSP, ideographic space and zero-width characters.
const sp = `[\s\p{Z}\x{200B}\x{FEFF}]*`

// num captures a whole number, comma-grouped thousands included, so that
// "1,204위" is read as 1204 and not as 204.
const num = `(\d{1,3}(?:,\d{3})+|\d+)`

var (
	weeklyBestRe        = regexp.MustCompile(`주간` + sp + `베스트` + sp + `외국어` + sp + num + sp + `위`)
	weeklyBestCompactRe = regexp.MustCompile(`주간베스트외국어` + sp + num + sp + `위`)
	foreignLanguageRe   = regexp.MustCompile(`외국어` + sp + num + sp + `위`)
	bestRe              = regexp.MustCompile(`베스트` + sp + num + sp + `위`)

	rankUnitRe     = regexp.MustCompile(num + sp + `위`)
	elementRankRe  = regexp.MustCompile(`(?i)(?:베스트|순위|외국어|랭킹|best|rank)[^0-9]{0,40}?` + num + sp + `위`)
	scriptAssignRe = regexp.MustCompile(`(?i)["']?\b(?:rank|ranking|bestRank|best_rank|weeklyRank|weekly_rank|salesRank|sales_rank|bestsellerRank)["']?\s*[:=]\s*["']?` + num)
)

var windowKeywords = []string{"베스트", "순위", "외국어", "주간", "랭킹", "best", "rank"}

const elementSelector = "span, div, p, strong, em, b, li, dt, dd, td, a, h1, h2, h3, h4"

var selectorHints = []string{"rank", "best", "ranking", "순위"}

var dataAttributes = []string{"data-rank", "data-best", "data-ranking", "data-best-rank"}

var scriptKeys = map[string]bool{
	"rank":           true,
	"ranking":        true,
	"bestrank":       true,
	"best_rank":      true,
	"weeklyrank":     true,
	"weekly_rank":    true,
	"salesrank":      true,
	"sales_rank":     true,
	"bestsellerrank": true,
}

// firstInRange returns the first captured number of re in s that is a valid
// rank.
func firstInRange(re *regexp.Regexp, s string) (int, bool) {
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		start, end := loc[len(loc)-2], loc[len(loc)-1]
		if start < 0 || !numberStartsAt(s, start) {
			continue
		}
		if n, ok := parseRank(s[start:end]); ok {
			return n, true
		}
	}
	return 0, false
}

// numberStartsAt reports whether s[i:] is not the tail of a longer number
// such as "12,34" or "1.5".
func numberStartsAt(s string, i int) bool {
	if i == 0 {
		return true
	}
	switch c := s[i-1]; {
	case c >= '0' && c <= '9', c == ',', c == '.':
		return false
	}
	return true
}

func parseRank(s string) (int, bool) {
	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil || !domain.ValidRank(n) {
		return 0, false
	}
	return n, true
}

type phraseStrategy struct {
	id StrategyID
	re *regexp.Regexp
}

func (s phraseStrategy) ID() StrategyID { return s.id }

func (s phraseStrategy) Find(in Input) (int, bool) {
	return firstInRange(s.re, in.Text)
}

type keywordWindowStrategy struct {
	window int
}

func (keywordWindowStrategy) ID() StrategyID { return KeywordWindow }

func (s keywordWindowStrategy) Find(in Input) (int, bool) {
	for _, loc := range rankUnitRe.FindAllStringSubmatchIndex(in.Text, -1) {
		if !numberStartsAt(in.Text, loc[2]) {
			continue
		}
		n, ok := parseRank(in.Text[loc[2]:loc[3]])
		if !ok {
			continue
		}
		if hasKeyword(surrounding(in.Text, loc[0], loc[1], s.window)) {
			return n, true
		}
	}
	return 0, false
}

// surrounding returns up to width runes on each side of text[start:end].
func surrounding(text string, start, end, width int) string {
	from := start
	for i := 0; i < width && from > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:from])
		from -= size
	}
	to := end
	for i := 0; i < width && to < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[to:])
		to += size
	}
	return text[from:start] + " " + text[end:to]
}

func hasKeyword(s string) bool {
	s = strings.ToLower(s)
	for _, kw := range windowKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

type elementTextStrategy struct{}

func (elementTextStrategy) ID() StrategyID { return ElementText }

func (elementTextStrategy) Find(in Input) (int, bool) {
	if in.Doc == nil {
		return 0, false
	}
	var rank int
	var found bool
	in.Doc.Find(elementSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rank, found = firstInRange(elementRankRe, strings.TrimSpace(s.Text()))
		return !found
	})
	return rank, found
}

type rankSelectorStrategy struct{}

func (rankSelectorStrategy) ID() StrategyID { return RankSelector }

func (rankSelectorStrategy) Find(in Input) (int, bool) {
	if in.Doc == nil {
		return 0, false
	}
	var rank int
	var found bool
	in.Doc.Find("[class], [id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !hintedSelection(s) {
			return true
		}
		rank, found = firstInRange(rankUnitRe, s.Text())
		return !found
	})
	return rank, found
}

func hintedSelection(s *goquery.Selection) bool {
	names := strings.ToLower(s.AttrOr("class", "") + " " + s.AttrOr("id", ""))
	for _, hint := range selectorHints {
		if strings.Contains(names, hint) {
			return true
		}
	}
	return false
}

type dataAttributeStrategy struct{}

func (dataAttributeStrategy) ID() StrategyID { return DataAttribute }

func (dataAttributeStrategy) Find(in Input) (int, bool) {
	if in.Doc == nil {
		return 0, false
	}
	var rank int
	var found bool
	in.Doc.Find("[" + strings.Join(dataAttributes, "], [") + "]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, attr := range dataAttributes {
			val, ok := s.Attr(attr)
			if !ok {
				continue
			}
			if rank, found = parseRank(strings.TrimSuffix(strings.TrimSpace(val), "위")); found {
				return false
			}
		}
		return true
	})
	return rank, found
}

// scriptStrategy looks for rank assignments in inline scripts. Scripts whose
// body is a JSON document are walked structurally instead, so that keys
// inside string values do not match.
type scriptStrategy struct{}

func (scriptStrategy) ID() StrategyID { return ScriptAssignment }

func (scriptStrategy) Find(in Input) (int, bool) {
	if in.Doc == nil {
		return 0, false
	}
	var rank int
	var found bool
	in.Doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		body := strings.TrimSpace(s.Text())
		if body == "" {
			return true
		}
		if gjson.Valid(body) {
			rank, found = findJSONRank(gjson.Parse(body))
		} else {
			rank, found = firstInRange(scriptAssignRe, body)
		}
		return !found
	})
	return rank, found
}

func findJSONRank(doc gjson.Result) (int, bool) {
	var rank int
	var found bool
	doc.ForEach(func(key, value gjson.Result) bool {
		if key.Type == gjson.String && scriptKeys[strings.ToLower(key.String())] {
			switch value.Type {
			case gjson.Number, gjson.String:
				if rank, found = parseRank(value.String()); found {
					return false
				}
			}
		}
		if value.IsObject() || value.IsArray() {
			rank, found = findJSONRank(value)
		}
		return !found
	})
	return rank, found
}
