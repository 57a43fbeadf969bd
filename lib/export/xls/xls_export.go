package xlsexport

import (
	"bytes"
	appealapimodels "labor-mobility-backend/models/api/appeal"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportAppealList(list []appealapimodels.AppealView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

const appealSheet = "Appeals"

var appealHeaders = []string{"Candidate", "Attendance date", "Original status", "Requested status", "Reason", "Appeal status", "Reviewed at", "Reviewer comments", "Submitted at"}

func (i impl) ExportAppealList(list []appealapimodels.AppealView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("xlsx file close failed")
		}
	}()
	sheet := "Sheet1"
	row, err := writeHeader(f, sheet, 0, appealHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "xlsx header")
	}
	if len(list) != 0 {
		if _, err = writeAppealData(f, sheet, list, row); err != nil {
			return nil, errors.Wrap(err, "xlsx appeal rows")
		}
	}
	if err = f.SetSheetName(sheet, appealSheet); err != nil {
		return nil, errors.Wrap(err, "xlsx sheet name")
	}
	return f.WriteToBuffer()
}

func writeAppealData(f *excelize.File, sheet string, list []appealapimodels.AppealView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(appealHeaders), row+len(list)); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		requested := ""
		if item.RequestedStatus != nil {
			requested = item.RequestedStatus.ToHuman()
		}
		reviewedAt := ""
		if item.ReviewedAt != nil {
			reviewedAt = item.ReviewedAt.Format(dateTimeLayout)
		}
		values := []interface{}{
			item.CandidateName,
			item.AttendanceDate.Format(dateLayout),
			item.OriginalStatus.ToHuman(),
			requested,
			item.Reason,
			item.Status.ToHuman(),
			reviewedAt,
			item.ReviewerComments,
			item.CreatedAt.Format(dateTimeLayout),
		}
		for idx, value := range values {
			if err := writeColumn(f, sheet, idx+1, row, value); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}
