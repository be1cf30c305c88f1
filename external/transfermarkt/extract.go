package transfermarkt

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/coach-ledger/internal/parser"
)

// ExtractMatchRows reads a fixtures page. Every div.box with a content-box-headline contributes
// the rows of its first table, header row skipped, with the headline as competition.
func ExtractMatchRows(r io.Reader) ([]parser.MatchRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, crerr.Wrap(err, "parse fixtures page")
	}

	rows := make([]parser.MatchRow, 0, 64)
	doc.Find("div.box").Each(func(_ int, box *goquery.Selection) {
		headline := box.Find("h2.content-box-headline").First()
		if headline.Length() == 0 {
			return
		}
		table := box.Find("table").First()
		if table.Length() == 0 {
			return
		}

		competition := cellText(headline)
		table.Find("tr").Each(func(i int, tr *goquery.Selection) {
			if i == 0 {
				return
			}
			rows = append(rows, parser.MatchRow{
				Competition: competition,
				Columns:     cellTexts(tr),
			})
		})
	})
	return rows, nil
}

// ExtractTenureRows reads the staff history page: the direct rows of table.items > tbody.
func ExtractTenureRows(r io.Reader) ([]parser.TenureRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, crerr.Wrap(err, "parse staff history page")
	}

	table := doc.Find("table.items").First()
	if table.Length() == 0 {
		return nil, crerr.New("staff history table not found")
	}

	rows := make([]parser.TenureRow, 0, 32)
	table.ChildrenFiltered("tbody").First().ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) {
		cols := cellTexts(tr)
		if len(cols) == 0 {
			return
		}
		rows = append(rows, parser.TenureRow{Columns: cols})
	})
	return rows, nil
}

func cellTexts(tr *goquery.Selection) []string {
	cells := tr.Find("td")
	out := make([]string, 0, cells.Length())
	cells.Each(func(_ int, td *goquery.Selection) {
		out = append(out, cellText(td))
	})
	return out
}

func cellText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}
