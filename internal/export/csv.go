package export

import (
	"io"
	"strconv"
	"strings"

	"github.com/orderdesk/intake-server-go/internal/model"
)

// utf8BOM lets spreadsheet applications detect UTF-8 so the Chinese column
// headers and field values render correctly.
const utf8BOM = "\uFEFF"

// CSVEncoder writes orders as delimited text. Text fields are always
// quoted with embedded quotes doubled and CR/LF collapsed to a space;
// numeric fields are written bare. encoding/csv cannot express this byte
// shape (it quotes conditionally and preserves newlines), so the rows are
// rendered by hand.
type CSVEncoder struct {
	w          io.Writer
	headerDone bool
}

func NewCSVEncoder(w io.Writer) *CSVEncoder {
	return &CSVEncoder{w: w}
}

func (e *CSVEncoder) WriteOrders(orders []model.Order) error {
	var sb strings.Builder

	if !e.headerDone {
		sb.WriteString(utf8BOM)
		sb.WriteString(strings.Join(Columns, ","))
		sb.WriteString("\n")
		e.headerDone = true
	}

	for _, order := range orders {
		sb.WriteString(strings.Join(csvRow(order), ","))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(e.w, sb.String())
	return err
}

func csvRow(order model.Order) []string {
	return []string{
		order.ID,
		order.CreatedAt.Format(timeLayout),
		order.OrderTime.Format(timeLayout),
		quote(order.Country),
		quote(order.ASIN),
		quote(order.Keywords),
		strconv.Itoa(order.PositionPage),
		strconv.FormatFloat(order.UnitPrice, 'f', -1, 64),
		yesNo(order.HasGiftCard),
		quote(deref(order.BrandName)),
		quote(deref(order.StoreName)),
		quote(deref(order.KeywordsCN)),
		strconv.Itoa(order.TotalOrders),
		strconv.Itoa(order.DailyOrders),
		quote(deref(order.Notes)),
	}
}

// quote wraps a text field in double quotes unconditionally, doubling any
// embedded quotes and replacing line breaks with a single space so every
// record stays on one line.
func quote(s string) string {
	s = strings.ReplaceAll(s, `"`, `""`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return `"` + s + `"`
}
