// Package extract finds a bestseller rank in a product page by running an
// ordered cascade of pattern strategies, most specific first.
package extract

import (
	"bytes"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"rankwatch/internal/domain"
)

const DefaultWindow = 100

type StrategyID string

const (
	WeeklyBestPhrase      StrategyID = "weekly-best-phrase"
	WeeklyBestCompact     StrategyID = "weekly-best-compact"
	ForeignLanguagePhrase StrategyID = "foreign-language-phrase"
	BestPhrase            StrategyID = "best-phrase"
	KeywordWindow         StrategyID = "keyword-window"
	ElementText           StrategyID = "element-text"
	RankSelector          StrategyID = "rank-selector"
	DataAttribute         StrategyID = "data-attribute"
	ScriptAssignment      StrategyID = "script-assignment"
)

// Input is what a strategy looks at. Doc may be nil when only text is
// available; document strategies then report no match.
type Input struct {
	Text string
	Doc  *goquery.Document
}

// Strategy is one step of the cascade.
type Strategy interface {
	ID() StrategyID
	Find(in Input) (int, bool)
}

// Result is the outcome of a cascade run. A nil Rank means unknown.
type Result struct {
	Rank     *int
	Category *string
	Strategy StrategyID
}

func (r Result) Found() bool {
	return r.Rank != nil
}

type Config struct {
	// Window is the number of runes inspected on each side of a bare
	// "NN위" match by the keyword-window strategy.
	Window   int
	Category string
}

type Extractor struct {
	strategies []Strategy
	category   string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Extractor {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Category == "" {
		cfg.Category = domain.DefaultCategory
	}
	return &Extractor{
		strategies: Cascade(cfg.Window),
		category:   cfg.Category,
		logger:     logger.With("component", "extract"),
	}
}

// Cascade returns the strategies in the order they are tried.
func Cascade(window int) []Strategy {
	return []Strategy{
		phraseStrategy{id: WeeklyBestPhrase, re: weeklyBestRe},
		phraseStrategy{id: WeeklyBestCompact, re: weeklyBestCompactRe},
		phraseStrategy{id: ForeignLanguagePhrase, re: foreignLanguageRe},
		phraseStrategy{id: BestPhrase, re: bestRe},
		keywordWindowStrategy{window: window},
		elementTextStrategy{},
		rankSelectorStrategy{},
		dataAttributeStrategy{},
		scriptStrategy{},
	}
}

func (e *Extractor) Strategies() []Strategy {
	return e.strategies
}

// Extract runs the cascade over body text and an optional parsed document.
// It never fails; an empty Result means no strategy matched.
func (e *Extractor) Extract(text string, doc *goquery.Document) Result {
	in := Input{Text: text, Doc: doc}
	for _, s := range e.strategies {
		rank, ok := s.Find(in)
		if !ok {
			continue
		}
		category := e.category
		e.logger.Debug("rank extracted", "strategy", s.ID(), "rank", rank)
		return Result{Rank: &rank, Category: &category, Strategy: s.ID()}
	}
	e.logger.Debug("no strategy matched", "text_len", len(text), "has_doc", doc != nil)
	return Result{}
}

// ExtractHTML parses raw markup and runs the cascade over its visible text
// and element tree. Unparseable markup is treated as plain text.
func (e *Extractor) ExtractHTML(markup []byte) Result {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		e.logger.Warn("parse page markup", "error", err)
		return e.Extract(string(markup), nil)
	}
	return e.Extract(VisibleText(doc.Selection), doc)
}
