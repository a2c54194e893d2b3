package xlsexport

import (
	"bytes"

	"gaportal/internal/model"
	"gaportal/internal/view"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportVisitors(list []model.Visitor) (*bytes.Buffer, error)
}

type impl struct{}

func New() Provider {
	return impl{}
}

var visitorHeaders = []string{"Name", "Origin", "Meeting With", "Purpose", "Check In", "Check Out", "Status"}

func (i impl) ExportVisitors(list []model.Visitor) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close xlsx file")
		}
	}()
	sheet := "Sheet1"
	row, err := writeHeader(f, sheet, 0, visitorHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "write xlsx header")
	}
	if len(list) != 0 {
		if _, err = writeVisitorData(f, sheet, list, row); err != nil {
			return nil, errors.Wrap(err, "write xlsx rows")
		}
	}
	f.SetSheetName(sheet, "Visitors")
	return f.WriteToBuffer()
}

func writeVisitorData(f *excelize.File, sheet string, list []model.Visitor, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(visitorHeaders), row+len(list)); err != nil {
		return row, err
	}
	for _, v := range list {
		row++
		values := []interface{}{
			v.Name,
			v.Origin,
			v.Host(),
			v.Purpose,
			v.CheckIn,
			v.CheckOut,
			view.Status(view.KindVisitor, v.State()).Label,
		}
		for idx, value := range values {
			if err := writeColumn(f, sheet, idx+1, row, value); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}
