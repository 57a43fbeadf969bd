package appealnotify

import (
	"fmt"
	"labor-mobility-backend/db"
	candidatestore "labor-mobility-backend/lib/candidate/store"
	"labor-mobility-backend/lib/smtp"
	"labor-mobility-backend/models"

	log "github.com/sirupsen/logrus"
)

type CreatedEvent struct {
	SpaceID            string
	AppealID           string
	CandidateID        string
	AttendanceRecordID string
}

type ResolvedEvent struct {
	SpaceID               string
	AppealID              string
	CandidateID           string
	Status                models.AppealStatus
	FinalAttendanceStatus *models.AttendanceStatus
}

// Provider delivers appeal events outside of the appeal transaction.
// Delivery failures are logged and never reported back to the caller.
type Provider interface {
	AppealCreated(event CreatedEvent)
	AppealResolved(event ResolvedEvent)
}

var Instance Provider

func NewHandler(sender string) {
	Instance = impl{
		candidateStore: candidatestore.NewInstance(db.DB),
		mailer:         smtp.Instance,
		sender:         sender,
		dispatch:       goDispatch,
	}
}

type impl struct {
	candidateStore candidatestore.Provider
	mailer         smtp.Provider
	sender         string
	dispatch       func(fn func())
}

func goDispatch(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("appeal notification panic recover: %v", r)
			}
		}()
		fn()
	}()
}

func (i impl) AppealCreated(event CreatedEvent) {
	i.dispatch(func() {
		body := fmt.Sprintf("Your appeal for attendance record %s has been registered and is waiting for review.", event.AttendanceRecordID)
		i.send(event.SpaceID, event.AppealID, event.CandidateID, "Appeal submitted", body)
	})
}

func (i impl) AppealResolved(event ResolvedEvent) {
	i.dispatch(func() {
		body := fmt.Sprintf("Your attendance appeal has been %s.", event.Status.ToHuman())
		if event.FinalAttendanceStatus != nil {
			body += fmt.Sprintf(" Attendance status is now: %s.", event.FinalAttendanceStatus.ToHuman())
		}
		i.send(event.SpaceID, event.AppealID, event.CandidateID, fmt.Sprintf("Appeal %s", event.Status.ToHuman()), body)
	})
}

func (i impl) send(spaceID, appealID, candidateID, subject, body string) {
	logger := log.
		WithField("space_id", spaceID).
		WithField("appeal_id", appealID).
		WithField("candidate_id", candidateID)
	if i.mailer == nil {
		logger.Warn("appeal notification skipped, mailer is not configured")
		return
	}
	candidate, err := i.candidateStore.GetByID(candidateID)
	if err != nil {
		logger.WithError(err).Error("appeal notification failed, candidate lookup error")
		return
	}
	if candidate == nil || candidate.Email == "" {
		logger.Warn("appeal notification skipped, candidate has no e-mail")
		return
	}
	if err = i.mailer.SendEMail(i.sender, candidate.Email, body, subject); err != nil {
		logger.WithError(err).Error("appeal notification failed")
		return
	}
	logger.Info("appeal notification sent")
}
