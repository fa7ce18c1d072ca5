package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/orderdesk/intake-server-go/internal/model"
)

const sheetName = "订单数据"

// ExcelEncoder builds a real XLSX workbook through excelize's stream
// writer. The workbook is only assembled in WriteTo, after all batches
// have been appended.
type ExcelEncoder struct {
	file *excelize.File
	sw   *excelize.StreamWriter
	row  int
}

func NewExcelEncoder() (*ExcelEncoder, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, err
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		f.Close()
		return nil, err
	}

	e := &ExcelEncoder{file: f, sw: sw, row: 1}

	header := make([]interface{}, len(Columns))
	for i, col := range Columns {
		header[i] = col
	}
	if err := e.writeRow(header); err != nil {
		f.Close()
		return nil, err
	}

	return e, nil
}

func (e *ExcelEncoder) WriteOrders(orders []model.Order) error {
	for _, order := range orders {
		cells := []interface{}{
			order.ID,
			order.CreatedAt.Format(timeLayout),
			order.OrderTime.Format(timeLayout),
			order.Country,
			order.ASIN,
			order.Keywords,
			order.PositionPage,
			order.UnitPrice,
			yesNo(order.HasGiftCard),
			deref(order.BrandName),
			deref(order.StoreName),
			deref(order.KeywordsCN),
			order.TotalOrders,
			order.DailyOrders,
			deref(order.Notes),
		}
		if err := e.writeRow(cells); err != nil {
			return err
		}
	}
	return nil
}

func (e *ExcelEncoder) writeRow(cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, e.row)
	if err != nil {
		return err
	}
	if err := e.sw.SetRow(cell, cells); err != nil {
		return err
	}
	e.row++
	return nil
}

// WriteTo flushes the stream writer and writes the finished workbook.
func (e *ExcelEncoder) WriteTo(w io.Writer) error {
	if err := e.sw.Flush(); err != nil {
		return err
	}
	defer e.file.Close()
	return e.file.Write(w)
}
