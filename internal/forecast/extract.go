package forecast

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrNilDocument is returned when Extract is called without a document
var ErrNilDocument = errors.New("nil document")

// Selectors locate the parts of a forecast page. They default to the
// surf-report.com layout; another site with the same tab/line nesting can be
// supported by substituting selectors.
type Selectors struct {
	Tab           string `yaml:"tab"`
	Title         string `yaml:"title"`
	TitleEmphasis string `yaml:"title_emphasis"`
	Content       string `yaml:"content"`
	Line          string `yaml:"line"`
	TimeCell      string `yaml:"time_cell"`
	HeaderClass   string `yaml:"header_class"`
	WaveCell      string `yaml:"wave_cell"`
	WindSpeedCell string `yaml:"wind_speed_cell"`
	WindDirImage  string `yaml:"wind_direction_image"`
	WindDirAttr   string `yaml:"wind_direction_attr"`
}

// DefaultSelectors returns the selectors for surf-report.com forecast pages
func DefaultSelectors() Selectors {
	return Selectors{
		Tab:           "div.forecast-tab",
		Title:         "div.title",
		TitleEmphasis: "b",
		Content:       "div.content",
		Line:          "div.line",
		TimeCell:      "div.cell.date.with-border",
		HeaderClass:   "entetes",
		WaveCell:      "div.cell.large.waves.with-border",
		WindSpeedCell: `div[class*="wind-color"]`,
		WindDirImage:  "div.wind.img img",
		WindDirAttr:   "alt",
	}
}

// Extraction is the result of walking a forecast page
type Extraction struct {
	Rows []RawRow

	// Tabs is the number of day containers found on the page.
	Tabs int
	// SkippedTabs counts day containers without a title.
	SkippedTabs int
	// SkippedLines counts lines without a usable time cell (including header lines).
	SkippedLines int
}

// LayoutMismatch reports whether the page had no day containers at all,
// which usually means the site changed its markup or the URL is wrong.
func (e *Extraction) LayoutMismatch() bool {
	return e.Tabs == 0
}

// Extract walks every day tab of doc and returns one RawRow per hourly line,
// in page order. Missing cells are filled with NotAvailable; lines without a
// time are dropped.
func Extract(doc *goquery.Document, sel Selectors) (*Extraction, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	result := &Extraction{Rows: make([]RawRow, 0)}

	doc.Find(sel.Tab).Each(func(_ int, tab *goquery.Selection) {
		result.Tabs++

		title := tab.Find(sel.Title).First()
		if title.Length() == 0 {
			result.SkippedTabs++
			return
		}

		date, ok := optionalText(title, sel.TitleEmphasis)
		if !ok {
			date = strippedText(title)
		}

		lines := tab.Find(sel.Content).First().Find(sel.Line)
		lines.Each(func(_ int, line *goquery.Selection) {
			hour, ok := timeText(line, sel)
			if !ok {
				result.SkippedLines++
				return
			}

			result.Rows = append(result.Rows, RawRow{
				Date:          date,
				Hour:          hour,
				WaveHeight:    orNotAvailable(optionalText(line, sel.WaveCell)),
				WindSpeed:     orNotAvailable(optionalText(line, sel.WindSpeedCell)),
				WindDirection: orNotAvailable(optionalAttr(line, sel.WindDirImage, sel.WindDirAttr)),
			})
		})
	})

	return result, nil
}

// timeText returns the hour label of a line, or false when the line has no
// time cell, the cell is a column header, or the cell is blank
func timeText(line *goquery.Selection, sel Selectors) (string, bool) {
	cell := line.Find(sel.TimeCell).First()
	if cell.Length() == 0 {
		return "", false
	}
	if sel.HeaderClass != "" && cell.HasClass(sel.HeaderClass) {
		return "", false
	}
	text := strippedText(cell)
	return text, text != ""
}

// optionalText returns the stripped text of the first match of selector under s
func optionalText(s *goquery.Selection, selector string) (string, bool) {
	match := s.Find(selector).First()
	if match.Length() == 0 {
		return "", false
	}
	return strippedText(match), true
}

// optionalAttr returns attribute attr of the first match of selector under s
func optionalAttr(s *goquery.Selection, selector, attr string) (string, bool) {
	match := s.Find(selector).First()
	if match.Length() == 0 {
		return "", false
	}
	return match.Attr(attr)
}

func orNotAvailable(value string, ok bool) string {
	if !ok {
		return NotAvailable
	}
	return value
}

// strippedText concatenates every descendant text node after trimming each one,
// so "<span> 1 </span>-<span>1.5 </span>m" reads "1-1.5m".
func strippedText(s *goquery.Selection) string {
	var sb strings.Builder
	for _, n := range s.Nodes {
		writeStripped(&sb, n)
	}
	return sb.String()
}

func writeStripped(sb *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		sb.WriteString(strings.TrimSpace(n.Data))
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeStripped(sb, c)
	}
}
