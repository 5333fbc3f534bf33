package wikicfp

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cfpscout/internal/domain/entity"
	"cfpscout/internal/usecase/match"
	"cfpscout/internal/utils/text"
)

// Parser extracts Conference records from announcement-page fragments using
// the configured marker rules. Every field except the title tolerates a
// missing marker and resolves to an empty string.
type Parser struct {
	markers Markers
}

// NewParser creates a Parser with the given marker rules.
func NewParser(markers Markers) *Parser {
	return &Parser{markers: markers}
}

// Parse converts one raw fragment into a Conference.
// It returns entity.ErrNoTitle when the title marker cannot be located;
// such fragments are skipped by the caller, never emitted as partial records.
func (p *Parser) Parse(frag match.Fragment) (*entity.Conference, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(frag.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse fragment HTML: %w", err)
	}

	title := text.CollapseSpace(doc.Find(p.markers.TitleSelector).First().Text())
	if title == "" {
		return nil, fmt.Errorf("fragment %s: %w", frag.URL, entity.ErrNoTitle)
	}

	conf := &entity.Conference{
		Title:       title,
		Acronym:     p.extractAcronym(doc),
		Description: strings.TrimSpace(doc.Find(p.markers.DescriptionSelector).First().Text()),
	}
	p.extractInfoRows(doc, conf)

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("fragment %s: %w", frag.URL, err)
	}

	return conf, nil
}

// extractAcronym reads the acronym marker, preferring the configured
// attribute over the element text.
func (p *Parser) extractAcronym(doc *goquery.Document) string {
	sel := doc.Find(p.markers.AcronymSelector).First()
	if p.markers.AcronymAttr != "" {
		if v, exists := sel.Attr(p.markers.AcronymAttr); exists {
			return text.CollapseSpace(v)
		}
		return ""
	}
	return text.CollapseSpace(sel.Text())
}

// extractInfoRows walks the info table rows and fills When, Where, and
// Deadline from the rows whose header matches the configured keywords.
// Rows with unknown headers are ignored; missing rows leave fields empty.
func (p *Parser) extractInfoRows(doc *goquery.Document, conf *entity.Conference) {
	doc.Find(p.markers.InfoTableSelector).Find("tr").Each(func(_ int, row *goquery.Selection) {
		header := strings.ToLower(text.CollapseSpace(row.Find("th").First().Text()))
		if header == "" {
			return
		}

		value := text.CollapseSpace(row.Find("td").First().Text())
		switch {
		case strings.Contains(header, p.markers.DeadlineKeyword):
			conf.Deadline = value
		case strings.Contains(header, p.markers.WhenKeyword):
			conf.When = value
		case strings.Contains(header, p.markers.WhereKeyword):
			conf.Where = value
		}
	})
}
