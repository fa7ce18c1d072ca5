// Package export renders batches of order records as downloadable files.
//
// Two formats are supported: BOM-prefixed CSV text and a genuine XLSX
// workbook. Both emit the same fixed column list in the same order, so a
// consumer can switch formats without remapping columns.
package export

import (
	"time"

	"github.com/orderdesk/intake-server-go/internal/model"
)

type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

// ParseFormat maps the request's format parameter; anything unknown falls
// back to CSV, matching the original dashboard behavior.
func ParseFormat(s string) Format {
	if s == string(FormatExcel) {
		return FormatExcel
	}
	return FormatCSV
}

func (f Format) ContentType() string {
	if f == FormatExcel {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

func (f Format) Extension() string {
	if f == FormatExcel {
		return "xlsx"
	}
	return "csv"
}

// Columns is the fixed header row, in the order fields appear on the
// submission form.
var Columns = []string{
	"ID",
	"提交时间",
	"下单时间",
	"国家",
	"ASIN",
	"关键词",
	"位置页码",
	"客单价",
	"主图是否放礼品卡",
	"品牌名",
	"店铺名",
	"产品关键词中文名",
	"总单数",
	"每天单数",
	"备注",
}

const timeLayout = "2006-01-02 15:04:05"

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return "否"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Encoder consumes order batches; export streams batches into it without
// ever holding the full result set.
type Encoder interface {
	WriteOrders(orders []model.Order) error
}

// FileName derives the download name from the export date and active
// filters. Repeated exports on the same day with the same filters collide
// on purpose; overwrite semantics belong to the browser.
func FileName(format Format, filter model.OrderFilter, now time.Time) string {
	name := "orders-" + now.Format("2006-01-02")

	if filter.Country != "" && filter.Country != model.AllCountries {
		name += "-" + filter.Country
	}
	if filter.HasDateBound() {
		name += "-filtered"
	}

	return name + "." + format.Extension()
}
