package pdfexport

import (
	"bytes"
	"html/template"
	appealapimodels "labor-mobility-backend/models/api/appeal"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const decisionTemplate = `<b>Attendance appeal decision</b><br><br>
Candidate: {{.CandidateName}}<br>
Attendance date: {{.AttendanceDate}}<br>
Original attendance status: {{.OriginalStatus}}<br>
{{if .RequestedStatus}}Requested attendance status: {{.RequestedStatus}}<br>{{end}}
<br>
Reason given: {{.Reason}}<br>
<br>
Decision: <b>{{.Decision}}</b><br>
Decided at: {{.DecidedAt}}<br>
{{if .Comments}}Reviewer comments: {{.Comments}}<br>{{end}}`

type decisionData struct {
	CandidateName   string
	AttendanceDate  string
	OriginalStatus  string
	RequestedStatus string
	Reason          string
	Decision        string
	DecidedAt       string
	Comments        string
}

func newDecisionData(view appealapimodels.AppealView) decisionData {
	data := decisionData{
		CandidateName:  view.CandidateName,
		AttendanceDate: view.AttendanceDate.Format("02.01.2006"),
		OriginalStatus: view.OriginalStatus.ToHuman(),
		Reason:         view.Reason,
		Decision:       view.Status.ToHuman(),
		Comments:       view.ReviewerComments,
	}
	if view.RequestedStatus != nil {
		data.RequestedStatus = view.RequestedStatus.ToHuman()
	}
	if view.ReviewedAt != nil {
		data.DecidedAt = view.ReviewedAt.UTC().Format(time.RFC1123)
	}
	return data
}

// GenerateAppealDecision renders a one page decision letter for a decided appeal.
func GenerateAppealDecision(view appealapimodels.AppealView) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateAppealDecision panic recover: %v", r)
		}
	}()
	if !view.Status.IsDecision() {
		return nil, errors.Errorf("appeal is not decided: %v", view.Status)
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	tpl, err := template.New("appeal_decision").Parse(decisionTemplate)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	err = tpl.Execute(buf, newDecisionData(view))
	if err != nil {
		return nil, err
	}

	_, lineHt := pdf.GetFontSize()
	html := pdf.HTMLBasicNew()
	html.Write(lineHt*1.5, tr(buf.String()))
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	buf = new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
