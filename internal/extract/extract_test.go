package extract

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankwatch/internal/domain"
)

func newTestExtractor(cfg Config) *Extractor {
	return New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func mustDoc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestExtract_WeeklyBestPhrase(t *testing.T) {
	ex := newTestExtractor(Config{})

	cases := map[string]string{
		"plain":            "주간베스트 외국어 47위",
		"spaced":           "주간 베스트 외국어 47 위",
		"ideographic":      "주간\u3000베스트\u3000외국어\u300047\u3000위",
		"nbsp":             "주간\u00a0베스트\u00a0외국어\u00a047위",
		"zero width":       "주간\u200b베스트\u200b외국어 47위",
		"surrounding text": "도서 정보\n주간베스트 외국어 47위 | 종합 1,204위",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			res := ex.Extract(text, nil)
			require.True(t, res.Found())
			assert.Equal(t, 47, *res.Rank)
			assert.Equal(t, domain.DefaultCategory, *res.Category)
			assert.Equal(t, WeeklyBestPhrase, res.Strategy)
		})
	}
}

func TestExtract_CascadeOrder(t *testing.T) {
	ex := newTestExtractor(Config{})

	cases := []struct {
		name     string
		text     string
		markup   string
		rank     int
		strategy StrategyID
	}{
		{name: "foreign language phrase", text: "분야: 외국어 12위", rank: 12, strategy: ForeignLanguagePhrase},
		{name: "best phrase", text: "종합 베스트 33위", rank: 33, strategy: BestPhrase},
		{
			name:     "keyword window",
			text:     "베스트셀러 상품입니다. 이번 주 기준으로 집계된 결과는 150위입니다.",
			rank:     150,
			strategy: KeywordWindow,
		},
		{name: "element text", markup: `<div><p>주간 랭킹: 8위</p></div>`, rank: 8, strategy: ElementText},
		{name: "rank selector", markup: `<div><span class="prod-rank-badge">12위</span></div>`, rank: 12, strategy: RankSelector},
		{name: "data attribute", markup: `<div data-rank="21"></div>`, rank: 21, strategy: DataAttribute},
		{
			name:     "script assignment",
			markup:   `<div><script>window.__product = { bestRank: 5, price: 15000 };</script></div>`,
			rank:     5,
			strategy: ScriptAssignment,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var doc *goquery.Document
			if tc.markup != "" {
				doc = mustDoc(t, tc.markup)
			}
			res := ex.Extract(tc.text, doc)
			require.True(t, res.Found())
			assert.Equal(t, tc.rank, *res.Rank)
			assert.Equal(t, tc.strategy, res.Strategy)
		})
	}
}

func TestExtract_EarlierStrategyWins(t *testing.T) {
	ex := newTestExtractor(Config{})

	res := ex.Extract("베스트 90위 / 외국어 12위", nil)

	require.True(t, res.Found())
	assert.Equal(t, 12, *res.Rank)
	assert.Equal(t, ForeignLanguagePhrase, res.Strategy)
}

func TestExtract_OutOfRangeContinuesCascade(t *testing.T) {
	ex := newTestExtractor(Config{})

	res := ex.Extract("외국어 0위 그리고 베스트 12위", nil)

	require.True(t, res.Found())
	assert.Equal(t, 12, *res.Rank)
	assert.Equal(t, BestPhrase, res.Strategy)
}

func TestExtract_RejectsOutOfRangeEverywhere(t *testing.T) {
	ex := newTestExtractor(Config{})

	texts := []string{
		"주간베스트 외국어 1001위",
		"주간베스트외국어 0위",
		"외국어 1500위",
		"베스트 0위",
		"베스트셀러 순위는 이번 주 2000위",
		"베스트셀러 종합 1,204위",
		"베스트 1,204위",
		"주간베스트 외국어 2,047위",
		"랭킹 12,34위",
		"베스트셀러 평점 9.5위",
	}
	for _, text := range texts {
		assert.False(t, ex.Extract(text, nil).Found(), text)
	}

	markups := []string{
		`<p>주간 랭킹: 1001위</p>`,
		`<span class="rank">0위</span>`,
		`<div data-rank="1001" data-best="0"></div>`,
		`<script>var rank = 4000;</script>`,
		`<script type="application/ld+json">{"salesRank": 1200}</script>`,
		`<span class="rank">종합 1,204위</span>`,
		`<p>주간 랭킹: 3,512위</p>`,
		`<script>var rank = 1,204;</script>`,
	}
	for _, markup := range markups {
		assert.False(t, ex.Extract("", mustDoc(t, markup)).Found(), markup)
	}
}

func TestExtract_GroupedThousands(t *testing.T) {
	ex := newTestExtractor(Config{})

	res := ex.Extract("종합 1,204위 | 외국어 베스트 1,000위", nil)
	require.True(t, res.Found())
	assert.Equal(t, 1000, *res.Rank)

	res = ex.Extract("", mustDoc(t, `<span class="rank">종합 1,204위</span><span class="rank">31위</span>`))
	require.True(t, res.Found())
	assert.Equal(t, 31, *res.Rank)
	assert.Equal(t, RankSelector, res.Strategy)
}

func TestExtract_KeywordWindow(t *testing.T) {
	t.Run("no keyword anywhere", func(t *testing.T) {
		ex := newTestExtractor(Config{})
		res := ex.Extract("배송 안내: 주문 후 150위치에서 출고", nil)
		assert.False(t, res.Found())
		assert.Nil(t, res.Category)
	})

	t.Run("keyword thirty characters before", func(t *testing.T) {
		ex := newTestExtractor(Config{})
		text := "베스트" + strings.Repeat("가", 27) + "150위"
		res := ex.Extract(text, nil)
		require.True(t, res.Found())
		assert.Equal(t, 150, *res.Rank)
		assert.Equal(t, KeywordWindow, res.Strategy)
	})

	t.Run("keyword outside window", func(t *testing.T) {
		text := "베스트" + strings.Repeat("가", 98) + "150위"
		assert.False(t, newTestExtractor(Config{}).Extract(text, nil).Found())

		res := newTestExtractor(Config{Window: 200}).Extract(text, nil)
		require.True(t, res.Found())
		assert.Equal(t, 150, *res.Rank)
	})

	t.Run("keyword at window edge", func(t *testing.T) {
		text := "베스트" + strings.Repeat("가", 97) + "150위"
		res := newTestExtractor(Config{}).Extract(text, nil)
		require.True(t, res.Found())
	})

	t.Run("skips first match without keyword", func(t *testing.T) {
		text := "3위 배송" + strings.Repeat(" ", 120) + "랭킹 집계 64위"
		res := newTestExtractor(Config{}).Extract(text, nil)
		require.True(t, res.Found())
		assert.Equal(t, 64, *res.Rank)
	})
}

func TestStrategies_Isolated(t *testing.T) {
	byID := map[StrategyID]Strategy{}
	for _, s := range Cascade(DefaultWindow) {
		byID[s.ID()] = s
	}
	require.Len(t, byID, 9)

	n, ok := byID[WeeklyBestCompact].Find(Input{Text: "주간베스트외국어47위"})
	require.True(t, ok)
	assert.Equal(t, 47, n)

	_, ok = byID[WeeklyBestCompact].Find(Input{Text: "주간 베스트 외국어 47위"})
	assert.False(t, ok)

	doc := mustDoc(t, `<ul><li id="bestRankArea"><em>19</em>위</li></ul>`)
	n, ok = byID[RankSelector].Find(Input{Doc: doc})
	require.True(t, ok)
	assert.Equal(t, 19, n)

	doc = mustDoc(t, `<div data-best-rank=" 7위 "></div>`)
	n, ok = byID[DataAttribute].Find(Input{Doc: doc})
	require.True(t, ok)
	assert.Equal(t, 7, n)

	for _, id := range []StrategyID{ElementText, RankSelector, DataAttribute, ScriptAssignment} {
		_, ok := byID[id].Find(Input{Text: "베스트 3위"})
		assert.False(t, ok, "%s without a document", id)
	}
}

func TestScriptStrategy_JSON(t *testing.T) {
	s := scriptStrategy{}

	doc := mustDoc(t, `<script type="application/ld+json">
		{"@type": "Product", "description": "rank: 3", "offers": {"salesRank": "17"}}
	</script>`)
	n, ok := s.Find(Input{Doc: doc})
	require.True(t, ok)
	assert.Equal(t, 17, n)

	doc = mustDoc(t, `<script id="__NEXT_DATA__" type="application/json">
		{"props": {"pageProps": {"items": [{"name": "x"}, {"weeklyRank": 44}]}}}
	</script>`)
	n, ok = s.Find(Input{Doc: doc})
	require.True(t, ok)
	assert.Equal(t, 44, n)

	doc = mustDoc(t, `<script type="application/ld+json">{"description": "rank: 3"}</script>`)
	_, ok = s.Find(Input{Doc: doc})
	assert.False(t, ok)
}

func TestExtractHTML(t *testing.T) {
	ex := newTestExtractor(Config{Category: "weekly/foreign"})

	page := `<html><head><script>var product = {rank: 3};</script></head>
<body><div class="prod_info"><span>주간베스트</span> <span>외국어 47위</span></div></body></html>`

	res := ex.ExtractHTML([]byte(page))

	require.True(t, res.Found())
	assert.Equal(t, 47, *res.Rank)
	assert.Equal(t, "weekly/foreign", *res.Category)
	assert.Equal(t, WeeklyBestPhrase, res.Strategy)
}

func TestExtractHTML_FallsBackToScript(t *testing.T) {
	ex := newTestExtractor(Config{})

	page := `<html><head><script>var product = {"rank": 3};</script></head><body><p>로그인이 필요합니다</p></body></html>`

	res := ex.ExtractHTML([]byte(page))

	require.True(t, res.Found())
	assert.Equal(t, 3, *res.Rank)
	assert.Equal(t, ScriptAssignment, res.Strategy)
}

func TestVisibleText(t *testing.T) {
	doc := mustDoc(t, `<html><head><title>t</title><style>p{}</style></head>
<body><div>주간<b>베스트</b></div><script>var rank = 1;</script><p>외국어</p></body></html>`)

	text := VisibleText(doc.Selection)

	assert.Contains(t, text, "주간베스트\n")
	assert.Contains(t, text, "외국어\n")
	assert.NotContains(t, text, "rank")
	assert.NotContains(t, text, "p{}")
}
