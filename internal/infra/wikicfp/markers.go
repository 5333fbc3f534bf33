package wikicfp

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Markers holds the structural marker rules the parser uses to locate fields
// inside an announcement page. The defaults match WikiCFP's current layout;
// when the site's markup drifts, a YAML override file fixes extraction
// without code changes.
type Markers struct {
	// TitleSelector locates the element whose text is the conference title.
	TitleSelector string `yaml:"title_selector"`

	// AcronymSelector locates the element carrying the acronym; the value is
	// read from AcronymAttr when set, from the element text otherwise.
	AcronymSelector string `yaml:"acronym_selector"`
	AcronymAttr     string `yaml:"acronym_attr"`

	// InfoTableSelector locates the table(s) holding the When/Where/Deadline
	// rows. Each row pairs a header cell with a value cell.
	InfoTableSelector string `yaml:"info_table_selector"`

	// Header keywords matched case-insensitively against row header text.
	WhenKeyword     string `yaml:"when_keyword"`
	WhereKeyword    string `yaml:"where_keyword"`
	DeadlineKeyword string `yaml:"deadline_keyword"`

	// DescriptionSelector locates the call-for-papers body text.
	DescriptionSelector string `yaml:"description_selector"`
}

// DefaultMarkers returns the marker rules for WikiCFP's current layout.
func DefaultMarkers() Markers {
	return Markers{
		TitleSelector:       `span[property="v:description"]`,
		AcronymSelector:     `span[property="v:summary"]`,
		AcronymAttr:         "content",
		InfoTableSelector:   "table.gglu",
		WhenKeyword:         "when",
		WhereKeyword:        "where",
		DeadlineKeyword:     "submission deadline",
		DescriptionSelector: "div.cfp",
	}
}

// LoadMarkers reads marker overrides from a YAML file and merges them over
// the defaults: fields left empty in the file keep their default value.
// An empty path returns the defaults unchanged.
func LoadMarkers(path string) (Markers, error) {
	markers := DefaultMarkers()
	if path == "" {
		return markers, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return markers, fmt.Errorf("read markers file: %w", err)
	}

	var overrides Markers
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return markers, fmt.Errorf("parse markers file %s: %w", path, err)
	}

	merge := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	merge(&markers.TitleSelector, overrides.TitleSelector)
	merge(&markers.AcronymSelector, overrides.AcronymSelector)
	merge(&markers.AcronymAttr, overrides.AcronymAttr)
	merge(&markers.InfoTableSelector, overrides.InfoTableSelector)
	merge(&markers.WhenKeyword, overrides.WhenKeyword)
	merge(&markers.WhereKeyword, overrides.WhereKeyword)
	merge(&markers.DeadlineKeyword, overrides.DeadlineKeyword)
	merge(&markers.DescriptionSelector, overrides.DescriptionSelector)

	return markers, nil
}
