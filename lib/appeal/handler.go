package appealhandler

import (
	"bytes"
	"context"
	"fmt"
	"labor-mobility-backend/db"
	appealnotify "labor-mobility-backend/lib/appeal-notify"
	appealhistorystore "labor-mobility-backend/lib/appeal/history-store"
	appealstore "labor-mobility-backend/lib/appeal/store"
	attendancestore "labor-mobility-backend/lib/attendance/store"
	candidatestore "labor-mobility-backend/lib/candidate/store"
	coursestore "labor-mobility-backend/lib/course/store"
	documentstorage "labor-mobility-backend/lib/document-storage"
	pdfexport "labor-mobility-backend/lib/export/pdf"
	xlsexport "labor-mobility-backend/lib/export/xls"
	"labor-mobility-backend/lib/utils/lock"
	"labor-mobility-backend/models"
	appealapimodels "labor-mobility-backend/models/api/appeal"
	"labor-mobility-backend/models/apperrors"
	dbmodels "labor-mobility-backend/models/db"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const activeAppealMessage = "An active appeal already exists for this attendance record"

type Provider interface {
	Submit(ctx context.Context, actor Actor, data appealapimodels.AppealSubmitData) (view appealapimodels.AppealView, err error)
	Cancel(ctx context.Context, actor Actor, id string) (view appealapimodels.AppealView, err error)
	Review(ctx context.Context, actor Actor, id string, data appealapimodels.AppealDecisionData) (view appealapimodels.AppealView, err error)
	Override(ctx context.Context, actor Actor, id string, data appealapimodels.AppealDecisionData) (view appealapimodels.AppealView, err error)
	List(ctx context.Context, actor Actor, filter appealapimodels.AppealFilter) (list appealapimodels.AppealList, err error)
	Get(ctx context.Context, actor Actor, id string) (view appealapimodels.AppealView, err error)
	History(ctx context.Context, actor Actor, id string) (list []appealapimodels.AppealHistoryView, err error)
	Export(ctx context.Context, actor Actor, filter appealapimodels.AppealFilter) (*bytes.Buffer, error)
	DecisionLetter(ctx context.Context, actor Actor, id string) ([]byte, error)
}

var Instance Provider

type Settings struct {
	MinReasonLength int
	MaxDocuments    int
	SubmitLockWait  time.Duration
}

func NewHandler(settings Settings) {
	Instance = impl{
		store:           appealstore.NewInstance(db.DB),
		historyStore:    appealhistorystore.NewInstance(db.DB),
		attendanceStore: attendancestore.NewInstance(db.DB),
		candidateStore:  candidatestore.NewInstance(db.DB),
		courseStore:     coursestore.NewInstance(db.DB),
		documents:       documentstorage.Instance,
		notifier:        appealnotify.Instance,
		xlsExporter:     xlsexport.Instance,
		tx:              gormTransactor(db.DB),
		settings:        settings,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

type impl struct {
	store           appealstore.Provider
	historyStore    appealhistorystore.Provider
	attendanceStore attendancestore.Provider
	candidateStore  candidatestore.Provider
	courseStore     coursestore.Provider
	documents       documentstorage.Provider
	notifier        appealnotify.Provider
	xlsExporter     xlsexport.Provider
	tx              transactor
	settings        Settings
	now             func() time.Time
	newID           func() string
}

// txStores are the stores bound to one database transaction.
type txStores struct {
	appeals    appealstore.Provider
	history    appealhistorystore.Provider
	attendance attendancestore.Provider
}

type transactor func(ctx context.Context, fn func(stores txStores) error) error

func gormTransactor(DB *gorm.DB) transactor {
	return func(ctx context.Context, fn func(stores txStores) error) error {
		return DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(txStores{
				appeals:    appealstore.NewInstance(tx),
				history:    appealhistorystore.NewInstance(tx),
				attendance: attendancestore.NewInstance(tx),
			})
		})
	}
}

func (i impl) getLogger(spaceID, appealID, userID string) *log.Entry {
	logger := log.WithField("space_id", spaceID)
	if appealID != "" {
		logger = logger.WithField("appeal_id", appealID)
	}
	if userID != "" {
		logger = logger.WithField("user_id", userID)
	}
	return logger
}

func (i impl) guardFor(actor Actor) (Guard, error) {
	switch actor.Role {
	case models.CandidateRole:
		candidate, err := i.candidateStore.GetByUserID(actor.UserID)
		if err != nil {
			return nil, apperrors.Internal(err, "failed to load candidate profile")
		}
		if candidate == nil {
			return nil, apperrors.NotFound("candidate profile not found")
		}
		return candidatePolicy{userID: actor.UserID, candidate: *candidate}, nil
	case models.TrainerRole:
		return trainerPolicy{trainerID: actor.UserID, spaceID: actor.SpaceID, courses: i.courseStore}, nil
	case models.TenantAdminRole:
		return adminPolicy{adminID: actor.UserID, tenantID: actor.SpaceID}, nil
	}
	return nil, apperrors.Forbidden("role %v has no access to appeals", actor.Role)
}

func requireRole(guard Guard, roles ...models.UserRole) error {
	for _, role := range roles {
		if guard.Role() == role {
			return nil
		}
	}
	return apperrors.Forbidden("operation is not available for role %v", guard.Role().ToHuman())
}

func (i impl) getAppeal(id string) (*dbmodels.AttendanceAppeal, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load appeal")
	}
	if rec == nil {
		return nil, apperrors.NotFound("appeal not found")
	}
	return rec, nil
}

// loadAuthorized resolves the actor and the appeal and checks the actor's scope over it.
func (i impl) loadAuthorized(actor Actor, id string, roles ...models.UserRole) (Guard, *dbmodels.AttendanceAppeal, error) {
	guard, err := i.guardFor(actor)
	if err != nil {
		return nil, nil, err
	}
	if err = requireRole(guard, roles...); err != nil {
		return nil, nil, err
	}
	appeal, err := i.getAppeal(id)
	if err != nil {
		return nil, nil, err
	}
	if err = guard.Authorize(*appeal); err != nil {
		return nil, nil, err
	}
	return guard, appeal, nil
}

func (i impl) Submit(ctx context.Context, actor Actor, data appealapimodels.AppealSubmitData) (view appealapimodels.AppealView, err error) {
	logger := i.getLogger(actor.SpaceID, "", actor.UserID).
		WithField("attendance_record_id", data.AttendanceRecordID)
	guard, err := i.guardFor(actor)
	if err != nil {
		return view, err
	}
	policy, ok := guard.(candidatePolicy)
	if !ok {
		return view, apperrors.Forbidden("only candidates can submit appeals")
	}
	candidate := policy.candidate

	record, err := i.attendanceStore.GetByID(data.AttendanceRecordID)
	if err != nil {
		return view, i.storeError(logger, err, "failed to load attendance record")
	}
	if record == nil {
		return view, apperrors.NotFound("attendance record not found")
	}
	if record.CandidateID() != candidate.ID {
		return view, apperrors.Forbidden("attendance record belongs to another candidate")
	}
	active, err := i.store.GetActiveByAttendance(record.ID)
	if err != nil {
		return view, i.storeError(logger, err, "failed to check active appeals")
	}
	if active != nil {
		return view, apperrors.Conflict(activeAppealMessage)
	}
	if err = data.Validate(); err != nil {
		return view, err
	}
	reason := strings.TrimSpace(data.Reason)
	if utf8.RuneCountInString(reason) < i.settings.MinReasonLength {
		return view, apperrors.Validation("reason must be at least %d characters long", i.settings.MinReasonLength)
	}
	if err = i.checkDocuments(ctx, logger, candidate.SpaceID, data.SupportingDocuments); err != nil {
		return view, err
	}

	now := i.now()
	rec := dbmodels.AttendanceAppeal{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{
				ID:        i.newID(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			SpaceID: candidate.SpaceID,
		},
		AttendanceRecordID:  record.ID,
		CandidateID:         candidate.ID,
		CourseID:            record.CourseID,
		AttendanceDate:      record.Date,
		Reason:              reason,
		OriginalStatus:      record.Status,
		RequestedStatus:     data.RequestedStatus,
		SupportingDocuments: append([]string{}, data.SupportingDocuments...),
		Status:              models.AppealStatusPending,
	}
	success, err := lock.WithDelay(ctx, "appeal-submit:"+record.ID, i.settings.SubmitLockWait, func() error {
		return i.tx(ctx, func(s txStores) error {
			active, err := s.appeals.GetActiveByAttendance(record.ID)
			if err != nil {
				return err
			}
			if active != nil {
				return appealstore.ErrActiveAppealExists
			}
			if _, err = s.appeals.Create(rec); err != nil {
				return err
			}
			_, err = s.history.Create(i.historyRecord(rec, guard, "", models.AppealStatusPending, "appeal submitted", dbmodels.EntityChanges{
				Description: "Appeal submitted",
				Data: []dbmodels.FieldChanges{
					{Field: "original_status", NewValue: rec.OriginalStatus},
					{Field: "requested_status", NewValue: rec.RequestedStatus},
				},
			}))
			return err
		})
	})
	if err != nil {
		return view, i.storeError(logger, err, "failed to create appeal")
	}
	if !success {
		return view, apperrors.Conflict("another appeal for this attendance record is being submitted, try again later")
	}
	logger.WithField("appeal_id", rec.ID).Info("appeal submitted")

	rec.Candidate = &candidate
	if i.notifier != nil {
		i.notifier.AppealCreated(appealnotify.CreatedEvent{
			SpaceID:            rec.SpaceID,
			AppealID:           rec.ID,
			CandidateID:        rec.CandidateID,
			AttendanceRecordID: rec.AttendanceRecordID,
		})
	}
	return appealapimodels.AppealConvert(rec), nil
}

func (i impl) checkDocuments(ctx context.Context, logger *log.Entry, spaceID string, documents []string) error {
	if i.settings.MaxDocuments > 0 && len(documents) > i.settings.MaxDocuments {
		return apperrors.Validation("no more than %d supporting documents can be attached", i.settings.MaxDocuments)
	}
	if i.documents == nil {
		return nil
	}
	for _, documentID := range documents {
		exist, err := i.documents.Exists(ctx, spaceID, documentID)
		if err != nil {
			logger.WithError(err).WithField("document_id", documentID).Error("failed to check supporting document")
			return apperrors.Internal(err, "failed to check supporting documents")
		}
		if !exist {
			return apperrors.Validation("supporting document %v was not uploaded", documentID)
		}
	}
	return nil
}

func (i impl) Cancel(ctx context.Context, actor Actor, id string) (view appealapimodels.AppealView, err error) {
	guard, appeal, err := i.loadAuthorized(actor, id, models.CandidateRole)
	if err != nil {
		return view, err
	}
	if err = checkTransition(cancelTransition, appeal.Status, models.AppealStatusCancelled); err != nil {
		return view, err
	}
	return i.decide(ctx, guard, *appeal, decision{
		kind:   cancelTransition,
		target: models.AppealStatusCancelled,
	})
}

func (i impl) Review(ctx context.Context, actor Actor, id string, data appealapimodels.AppealDecisionData) (view appealapimodels.AppealView, err error) {
	if err = data.Validate(); err != nil {
		return view, err
	}
	guard, err := i.guardFor(actor)
	if err != nil {
		return view, err
	}
	if err = requireRole(guard, models.TrainerRole); err != nil {
		return view, err
	}
	appeal, err := i.getAppeal(id)
	if err != nil {
		return view, err
	}
	// a decided appeal is a conflict for every trainer, scoped or not
	if err = checkTransition(reviewTransition, appeal.Status, data.Action); err != nil {
		return view, err
	}
	if err = guard.Authorize(*appeal); err != nil {
		return view, err
	}
	return i.decide(ctx, guard, *appeal, decision{
		kind:      reviewTransition,
		target:    data.Action,
		comments:  strings.TrimSpace(data.Comments),
		newStatus: data.NewStatus,
	})
}

func (i impl) Override(ctx context.Context, actor Actor, id string, data appealapimodels.AppealDecisionData) (view appealapimodels.AppealView, err error) {
	if err = data.Validate(); err != nil {
		return view, err
	}
	guard, appeal, err := i.loadAuthorized(actor, id, models.TenantAdminRole)
	if err != nil {
		return view, err
	}
	if err = checkTransition(overrideTransition, appeal.Status, data.Action); err != nil {
		return view, err
	}
	// re-activating an appeal must not shadow a newer active one
	if data.Action.IsActive() && !appeal.Status.IsActive() {
		active, err := i.store.GetActiveByAttendance(appeal.AttendanceRecordID)
		if err != nil {
			return view, i.storeError(i.getLogger(appeal.SpaceID, appeal.ID, actor.UserID), err, "failed to check active appeals")
		}
		if active != nil && active.ID != appeal.ID {
			return view, apperrors.Conflict(activeAppealMessage)
		}
	}
	return i.decide(ctx, guard, *appeal, decision{
		kind:      overrideTransition,
		target:    data.Action,
		comments:  overrideComments(data.Comments),
		newStatus: data.NewStatus,
	})
}

func overrideComments(comments string) string {
	comments = strings.TrimSpace(comments)
	if comments == "" {
		return models.AdminOverrideMarker
	}
	return models.AdminOverrideMarker + " " + comments
}

type decision struct {
	kind      transitionKind
	target    models.AppealStatus
	comments  string
	newStatus *models.AttendanceStatus
}

// decide moves the appeal from its loaded status to the target one.
// The status write, the attendance cascade and the history row commit together.
func (i impl) decide(ctx context.Context, guard Guard, appeal dbmodels.AttendanceAppeal, d decision) (view appealapimodels.AppealView, err error) {
	logger := i.getLogger(appeal.SpaceID, appeal.ID, guard.ActorID())
	now := i.now()
	updMap := map[string]interface{}{
		"status":     d.target,
		"updated_at": now,
	}
	changes := dbmodels.EntityChanges{
		Description: fmt.Sprintf("Appeal %s", strings.ToLower(d.target.ToHuman())),
		Data: []dbmodels.FieldChanges{
			{Field: "status", OldValue: appeal.Status, NewValue: d.target},
		},
	}
	actorID := guard.ActorID()
	if d.kind != cancelTransition {
		updMap["reviewed_by"] = actorID
		updMap["reviewed_at"] = now
		updMap["reviewer_comments"] = d.comments
	}
	var finalStatus *models.AttendanceStatus
	err = i.tx(ctx, func(s txStores) error {
		err := s.appeals.UpdateStatus(appeal.ID, appeal.Status, updMap)
		if err != nil {
			return err
		}
		if d.target == models.AppealStatusApproved {
			final := finalAttendanceStatus(d.newStatus, appeal.RequestedStatus)
			previous, err := applyCascade(s.attendance, appeal.AttendanceRecordID, final, d.comments, now)
			if err != nil {
				return err
			}
			finalStatus = &final
			changes.Data = append(changes.Data, dbmodels.FieldChanges{
				Field:    "attendance_status",
				OldValue: previous,
				NewValue: final,
			})
		}
		_, err = s.history.Create(i.historyRecord(appeal, guard, appeal.Status, d.target, d.comments, changes))
		return err
	})
	if err != nil {
		return view, i.storeError(logger, err, "failed to update appeal status")
	}
	logger.
		WithField("from_status", appeal.Status).
		WithField("to_status", d.target).
		Info("appeal status changed")

	appeal.Status = d.target
	appeal.UpdatedAt = now
	if d.kind != cancelTransition {
		appeal.ReviewedBy = &actorID
		appeal.ReviewedAt = &now
		appeal.ReviewerComments = d.comments
	}
	if i.notifier != nil && d.target.IsDecision() {
		i.notifier.AppealResolved(appealnotify.ResolvedEvent{
			SpaceID:               appeal.SpaceID,
			AppealID:              appeal.ID,
			CandidateID:           appeal.CandidateID,
			Status:                d.target,
			FinalAttendanceStatus: finalStatus,
		})
	}
	return appealapimodels.AppealConvert(appeal), nil
}

func (i impl) historyRecord(appeal dbmodels.AttendanceAppeal, guard Guard, from, to models.AppealStatus, comment string, changes dbmodels.EntityChanges) dbmodels.AttendanceAppealHistory {
	return dbmodels.AttendanceAppealHistory{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{
				ID:        i.newID(),
				CreatedAt: i.now(),
			},
			SpaceID: appeal.SpaceID,
		},
		AppealID:   appeal.ID,
		ActorID:    guard.ActorID(),
		ActorRole:  guard.Role(),
		FromStatus: from,
		ToStatus:   to,
		Comment:    comment,
		Changes:    changes,
	}
}

func (i impl) List(ctx context.Context, actor Actor, filter appealapimodels.AppealFilter) (result appealapimodels.AppealList, err error) {
	result.Items = []appealapimodels.AppealView{}
	if err = filter.Validate(); err != nil {
		return result, err
	}
	guard, err := i.guardFor(actor)
	if err != nil {
		return result, err
	}
	query, ok, err := guard.Scope(filter)
	if err != nil {
		return result, err
	}
	if !ok {
		return result, nil
	}
	logger := i.getLogger(actor.SpaceID, "", actor.UserID)
	list, err := i.store.List(query.scope, query.filter)
	if err != nil {
		return result, i.storeError(logger, err, "failed to load appeal list")
	}
	result.RowCount, err = i.store.ListCount(query.scope, query.filter)
	if err != nil {
		return result, i.storeError(logger, err, "failed to count appeals")
	}
	for _, rec := range list {
		result.Items = append(result.Items, appealapimodels.AppealConvert(rec))
	}
	if query.withStats {
		counts, err := i.store.CountByStatus(query.scope, query.filter)
		if err != nil {
			return result, i.storeError(logger, err, "failed to count appeals by status")
		}
		stats := appealapimodels.NewAppealStats(counts)
		result.Stats = &stats
	}
	return result, nil
}

func (i impl) Get(ctx context.Context, actor Actor, id string) (view appealapimodels.AppealView, err error) {
	_, appeal, err := i.loadAuthorized(actor, id, models.CandidateRole, models.TrainerRole, models.TenantAdminRole)
	if err != nil {
		return view, err
	}
	return appealapimodels.AppealConvert(*appeal), nil
}

func (i impl) History(ctx context.Context, actor Actor, id string) (list []appealapimodels.AppealHistoryView, err error) {
	_, appeal, err := i.loadAuthorized(actor, id, models.CandidateRole, models.TrainerRole, models.TenantAdminRole)
	if err != nil {
		return nil, err
	}
	recList, err := i.historyStore.List(appeal.SpaceID, appeal.ID)
	if err != nil {
		return nil, i.storeError(i.getLogger(appeal.SpaceID, appeal.ID, actor.UserID), err, "failed to load appeal history")
	}
	list = make([]appealapimodels.AppealHistoryView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, appealapimodels.AppealHistoryConvert(rec))
	}
	return list, nil
}

func (i impl) Export(ctx context.Context, actor Actor, filter appealapimodels.AppealFilter) (*bytes.Buffer, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	guard, err := i.guardFor(actor)
	if err != nil {
		return nil, err
	}
	if err = requireRole(guard, models.TenantAdminRole); err != nil {
		return nil, err
	}
	query, ok, err := guard.Scope(filter)
	if err != nil {
		return nil, err
	}
	logger := i.getLogger(actor.SpaceID, "", actor.UserID)
	views := []appealapimodels.AppealView{}
	if ok {
		query.scope.Unpaged = true
		list, err := i.store.List(query.scope, query.filter)
		if err != nil {
			return nil, i.storeError(logger, err, "failed to load appeal list")
		}
		for _, rec := range list {
			views = append(views, appealapimodels.AppealConvert(rec))
		}
	}
	buf, err := i.xlsExporter.ExportAppealList(views)
	if err != nil {
		logger.WithError(err).Error("failed to export appeals")
		return nil, apperrors.Internal(err, "failed to export appeals")
	}
	return buf, nil
}

func (i impl) DecisionLetter(ctx context.Context, actor Actor, id string) ([]byte, error) {
	_, appeal, err := i.loadAuthorized(actor, id, models.CandidateRole, models.TenantAdminRole)
	if err != nil {
		return nil, err
	}
	if !appeal.Status.IsDecision() {
		return nil, apperrors.Conflict("decision letter is available only for approved or rejected appeals")
	}
	data, err := pdfexport.GenerateAppealDecision(appealapimodels.AppealConvert(*appeal))
	if err != nil {
		i.getLogger(appeal.SpaceID, appeal.ID, actor.UserID).WithError(err).Error("failed to generate decision letter")
		return nil, apperrors.Internal(err, "failed to generate decision letter")
	}
	return data, nil
}

// storeError keeps typed errors, turns constraint races into conflicts and hides the rest.
func (i impl) storeError(logger *log.Entry, err error, msg string) error {
	var appErr *apperrors.Error
	switch {
	case errors.As(err, &appErr):
		if appErr.Kind == apperrors.KindInternal {
			logger.WithError(err).Error(msg)
		}
		return err
	case errors.Is(err, appealstore.ErrActiveAppealExists):
		return apperrors.Conflict(activeAppealMessage)
	case errors.Is(err, appealstore.ErrStaleStatus):
		return apperrors.Conflict("appeal was changed by another request, reload it and try again")
	}
	logger.WithError(err).Error(msg)
	return apperrors.Internal(err, msg)
}
