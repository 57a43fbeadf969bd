package appealhandler

import (
	"context"
	"fmt"
	appealnotify "labor-mobility-backend/lib/appeal-notify"
	appealstore "labor-mobility-backend/lib/appeal/store"
	xlsexport "labor-mobility-backend/lib/export/xls"
	"labor-mobility-backend/models"
	appealapimodels "labor-mobility-backend/models/api/appeal"
	dbmodels "labor-mobility-backend/models/db"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

const (
	testSpace  = "space-1"
	otherSpace = "space-2"
)

var (
	candidateActor      = Actor{UserID: "user-cand-1", SpaceID: testSpace, Role: models.CandidateRole}
	otherCandidateActor = Actor{UserID: "user-cand-2", SpaceID: testSpace, Role: models.CandidateRole}
	trainerActor        = Actor{UserID: "trainer-1", SpaceID: testSpace, Role: models.TrainerRole}
	otherTrainerActor   = Actor{UserID: "trainer-2", SpaceID: testSpace, Role: models.TrainerRole}
	idleTrainerActor    = Actor{UserID: "trainer-3", SpaceID: testSpace, Role: models.TrainerRole}
	adminActor          = Actor{UserID: "admin-1", SpaceID: testSpace, Role: models.TenantAdminRole}
	otherAdminActor     = Actor{UserID: "admin-2", SpaceID: otherSpace, Role: models.TenantAdminRole}
)

// memDB is an in-memory stand-in for the appeal tables.
// Non-transactional store calls take the mutex themselves, a transaction holds it throughout.
type memDB struct {
	mu          sync.Mutex
	appeals     map[string]dbmodels.AttendanceAppeal
	history     []dbmodels.AttendanceAppealHistory
	records     map[string]dbmodels.AttendanceRecord
	enrollments map[string]dbmodels.Enrollment
	candidates  map[string]dbmodels.Candidate
	courses     map[string]dbmodels.Course

	failHistory          error
	failAttendanceUpdate error
}

func newMemDB() *memDB {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	m := &memDB{
		appeals: map[string]dbmodels.AttendanceAppeal{},
		records: map[string]dbmodels.AttendanceRecord{},
		enrollments: map[string]dbmodels.Enrollment{
			"enr-1": enrollment("enr-1", "course-1", "cand-1"),
			"enr-2": enrollment("enr-2", "course-1", "cand-2"),
			"enr-3": enrollment("enr-3", "course-2", "cand-1"),
		},
		candidates: map[string]dbmodels.Candidate{
			"cand-1": candidate("cand-1", "user-cand-1", "Ivan", "Petrov"),
			"cand-2": candidate("cand-2", "user-cand-2", "Anna", "Sidorova"),
		},
		courses: map[string]dbmodels.Course{
			"course-1": course("course-1", "trainer-1"),
			"course-2": course("course-2", "trainer-2"),
		},
	}
	m.records["rec-1"] = record("rec-1", "enr-1", "course-1", models.AttendanceAbsent, date)
	m.records["rec-2"] = record("rec-2", "enr-2", "course-1", models.AttendanceLate, date.AddDate(0, 0, 1))
	m.records["rec-3"] = record("rec-3", "enr-3", "course-2", models.AttendanceAbsent, date.AddDate(0, 0, 2))
	m.records["rec-4"] = record("rec-4", "enr-1", "course-1", models.AttendanceLate, date.AddDate(0, 0, 3))
	return m
}

func enrollment(id, courseID, candidateID string) dbmodels.Enrollment {
	return dbmodels.Enrollment{
		BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: id}, SpaceID: testSpace},
		CourseID:       courseID,
		CandidateID:    candidateID,
	}
}

func candidate(id, userID, firstName, lastName string) dbmodels.Candidate {
	return dbmodels.Candidate{
		BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: id}, SpaceID: testSpace},
		UserID:         userID,
		FirstName:      firstName,
		LastName:       lastName,
		Email:          userID + "@example.com",
	}
}

func course(id string, trainerIDs ...string) dbmodels.Course {
	rec := dbmodels.Course{
		BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: id}, SpaceID: testSpace},
		Name:           "Course " + id,
	}
	for _, trainerID := range trainerIDs {
		rec.Trainers = append(rec.Trainers, dbmodels.CourseTrainer{CourseID: id, TrainerID: trainerID})
	}
	return rec
}

func record(id, enrollmentID, courseID string, status models.AttendanceStatus, date time.Time) dbmodels.AttendanceRecord {
	return dbmodels.AttendanceRecord{
		BaseSpaceModel: dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: id}, SpaceID: testSpace},
		CourseID:       courseID,
		EnrollmentID:   enrollmentID,
		Date:           date,
		Status:         status,
	}
}

func (m *memDB) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

// transactor runs fn under the mutex and restores the previous state when fn fails.
func (m *memDB) transactor() transactor {
	return func(ctx context.Context, fn func(stores txStores) error) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		appeals := make(map[string]dbmodels.AttendanceAppeal, len(m.appeals))
		for k, v := range m.appeals {
			appeals[k] = v
		}
		records := make(map[string]dbmodels.AttendanceRecord, len(m.records))
		for k, v := range m.records {
			records[k] = v
		}
		history := slices.Clone(m.history)
		err := fn(txStores{
			appeals:    memAppealStore{db: m, inTx: true},
			history:    memHistoryStore{db: m, inTx: true},
			attendance: memAttendanceStore{db: m, inTx: true},
		})
		if err != nil {
			m.appeals = appeals
			m.records = records
			m.history = history
		}
		return err
	}
}

func (m *memDB) appeal(id string) dbmodels.AttendanceAppeal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appeals[id]
}

func (m *memDB) attendance(id string) dbmodels.AttendanceRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[id]
}

func (m *memDB) appealCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.appeals)
}

// activeCount counts appeals holding the active slot of an attendance record.
func (m *memDB) activeCount(recordID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, rec := range m.appeals {
		if rec.AttendanceRecordID == recordID && rec.Status.IsActive() {
			count++
		}
	}
	return count
}

type memAppealStore struct {
	db   *memDB
	inTx bool
}

// violatesActive mirrors the partial unique index on active appeals.
func (s memAppealStore) violatesActive(rec dbmodels.AttendanceAppeal) bool {
	if !rec.Status.IsActive() {
		return false
	}
	for id, other := range s.db.appeals {
		if id != rec.ID && other.AttendanceRecordID == rec.AttendanceRecordID && other.Status.IsActive() {
			return true
		}
	}
	return false
}

func (s memAppealStore) Create(rec dbmodels.AttendanceAppeal) (string, error) {
	defer s.db.lock(s.inTx)()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if s.violatesActive(rec) {
		return "", appealstore.ErrActiveAppealExists
	}
	rec.Candidate = nil
	rec.SupportingDocuments = slices.Clone(rec.SupportingDocuments)
	s.db.appeals[rec.ID] = rec
	return rec.ID, nil
}

func (s memAppealStore) withCandidate(rec dbmodels.AttendanceAppeal) dbmodels.AttendanceAppeal {
	if candidate, ok := s.db.candidates[rec.CandidateID]; ok {
		rec.Candidate = &candidate
	}
	return rec
}

func (s memAppealStore) GetByID(id string) (*dbmodels.AttendanceAppeal, error) {
	defer s.db.lock(s.inTx)()
	rec, ok := s.db.appeals[id]
	if !ok {
		return nil, nil
	}
	rec = s.withCandidate(rec)
	return &rec, nil
}

func (s memAppealStore) GetActiveByAttendance(attendanceRecordID string) (*dbmodels.AttendanceAppeal, error) {
	defer s.db.lock(s.inTx)()
	for _, rec := range s.db.appeals {
		if rec.AttendanceRecordID == attendanceRecordID && rec.Status.IsActive() {
			return &rec, nil
		}
	}
	return nil, nil
}

func (s memAppealStore) UpdateStatus(id string, expected models.AppealStatus, updMap map[string]interface{}) error {
	defer s.db.lock(s.inTx)()
	rec, ok := s.db.appeals[id]
	if !ok || rec.Status != expected {
		return appealstore.ErrStaleStatus
	}
	for field, value := range updMap {
		switch field {
		case "status":
			rec.Status = value.(models.AppealStatus)
		case "updated_at":
			rec.UpdatedAt = value.(time.Time)
		case "reviewed_by":
			reviewedBy := value.(string)
			rec.ReviewedBy = &reviewedBy
		case "reviewed_at":
			reviewedAt := value.(time.Time)
			rec.ReviewedAt = &reviewedAt
		case "reviewer_comments":
			rec.ReviewerComments = value.(string)
		default:
			return fmt.Errorf("unexpected appeal field %v", field)
		}
	}
	if s.violatesActive(rec) {
		return appealstore.ErrActiveAppealExists
	}
	s.db.appeals[id] = rec
	return nil
}

func (s memAppealStore) matches(rec dbmodels.AttendanceAppeal, scope appealstore.Scope, filter appealapimodels.AppealFilter) bool {
	switch {
	case rec.SpaceID != scope.SpaceID:
		return false
	case scope.CandidateID != "" && rec.CandidateID != scope.CandidateID:
		return false
	case scope.CourseIDs != nil && !slices.Contains(scope.CourseIDs, rec.CourseID):
		return false
	case filter.Status != "" && rec.Status != filter.Status:
		return false
	case filter.CourseID != "" && rec.CourseID != filter.CourseID:
		return false
	case filter.CandidateID != "" && rec.CandidateID != filter.CandidateID:
		return false
	case filter.DateFrom != nil && rec.AttendanceDate.Before(*filter.DateFrom):
		return false
	case filter.DateTo != nil && rec.AttendanceDate.After(*filter.DateTo):
		return false
	}
	return true
}

func (s memAppealStore) filtered(scope appealstore.Scope, filter appealapimodels.AppealFilter) []dbmodels.AttendanceAppeal {
	list := []dbmodels.AttendanceAppeal{}
	for _, rec := range s.db.appeals {
		if s.matches(rec, scope, filter) {
			list = append(list, s.withCandidate(rec))
		}
	}
	return list
}

func (s memAppealStore) List(scope appealstore.Scope, filter appealapimodels.AppealFilter) ([]dbmodels.AttendanceAppeal, error) {
	defer s.db.lock(s.inTx)()
	list := s.filtered(scope, filter)
	sort.SliceStable(list, func(a, b int) bool {
		if list[a].Status.Rank() != list[b].Status.Rank() {
			return list[a].Status.Rank() < list[b].Status.Rank()
		}
		return list[a].CreatedAt.After(list[b].CreatedAt)
	})
	if scope.Unpaged {
		return list, nil
	}
	page, limit := filter.GetPage()
	from := (page - 1) * limit
	if from >= len(list) {
		return []dbmodels.AttendanceAppeal{}, nil
	}
	return list[from:min(from+limit, len(list))], nil
}

func (s memAppealStore) ListCount(scope appealstore.Scope, filter appealapimodels.AppealFilter) (int64, error) {
	defer s.db.lock(s.inTx)()
	return int64(len(s.filtered(scope, filter))), nil
}

func (s memAppealStore) CountByStatus(scope appealstore.Scope, filter appealapimodels.AppealFilter) (map[models.AppealStatus]int64, error) {
	defer s.db.lock(s.inTx)()
	result := map[models.AppealStatus]int64{}
	for _, rec := range s.filtered(scope, filter) {
		result[rec.Status]++
	}
	return result, nil
}

type memHistoryStore struct {
	db   *memDB
	inTx bool
}

func (s memHistoryStore) Create(rec dbmodels.AttendanceAppealHistory) (string, error) {
	defer s.db.lock(s.inTx)()
	if s.db.failHistory != nil {
		return "", s.db.failHistory
	}
	s.db.history = append(s.db.history, rec)
	return rec.ID, nil
}

func (s memHistoryStore) List(spaceID, appealID string) ([]dbmodels.AttendanceAppealHistory, error) {
	defer s.db.lock(s.inTx)()
	list := []dbmodels.AttendanceAppealHistory{}
	for _, rec := range s.db.history {
		if rec.SpaceID == spaceID && rec.AppealID == appealID {
			list = append(list, rec)
		}
	}
	return list, nil
}

type memAttendanceStore struct {
	db   *memDB
	inTx bool
}

func (s memAttendanceStore) GetByID(id string) (*dbmodels.AttendanceRecord, error) {
	defer s.db.lock(s.inTx)()
	rec, ok := s.db.records[id]
	if !ok {
		return nil, nil
	}
	if enr, ok := s.db.enrollments[rec.EnrollmentID]; ok {
		rec.Enrollment = &enr
	}
	return &rec, nil
}

func (s memAttendanceStore) GetByIDForUpdate(id string) (*dbmodels.AttendanceRecord, error) {
	return s.GetByID(id)
}

func (s memAttendanceStore) Update(id string, updMap map[string]interface{}) error {
	defer s.db.lock(s.inTx)()
	if s.db.failAttendanceUpdate != nil {
		return s.db.failAttendanceUpdate
	}
	rec, ok := s.db.records[id]
	if !ok {
		return fmt.Errorf("attendance record %v not found", id)
	}
	for field, value := range updMap {
		switch field {
		case "status":
			rec.Status = value.(models.AttendanceStatus)
		case "remarks":
			rec.Remarks = value.(string)
		default:
			return fmt.Errorf("unexpected attendance field %v", field)
		}
	}
	s.db.records[id] = rec
	return nil
}

type memCandidateStore struct {
	db *memDB
}

func (s memCandidateStore) GetByUserID(userID string) (*dbmodels.Candidate, error) {
	defer s.db.lock(false)()
	for _, rec := range s.db.candidates {
		if rec.UserID == userID {
			return &rec, nil
		}
	}
	return nil, nil
}

func (s memCandidateStore) GetByID(id string) (*dbmodels.Candidate, error) {
	defer s.db.lock(false)()
	rec, ok := s.db.candidates[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

type memCourseStore struct {
	db *memDB
}

func (s memCourseStore) GetTrainerIDs(courseID string) ([]string, error) {
	defer s.db.lock(false)()
	ids := []string{}
	for _, trainer := range s.db.courses[courseID].Trainers {
		ids = append(ids, trainer.TrainerID)
	}
	return ids, nil
}

func (s memCourseStore) ListTrainerCourseIDs(spaceID, trainerID string) ([]string, error) {
	defer s.db.lock(false)()
	ids := []string{}
	for id, rec := range s.db.courses {
		if rec.SpaceID != spaceID {
			continue
		}
		for _, trainer := range rec.Trainers {
			if trainer.TrainerID == trainerID {
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	created  []appealnotify.CreatedEvent
	resolved []appealnotify.ResolvedEvent
}

func (n *fakeNotifier) AppealCreated(event appealnotify.CreatedEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, event)
}

func (n *fakeNotifier) AppealResolved(event appealnotify.ResolvedEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resolved = append(n.resolved, event)
}

type fakeDocuments struct {
	uploaded map[string]bool
}

func (d fakeDocuments) Exists(ctx context.Context, spaceID, documentID string) (bool, error) {
	return d.uploaded[spaceID+"/"+documentID], nil
}

// testClock ticks one minute per call so creation order is observable.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

type testEnv struct {
	handler  impl
	db       *memDB
	notifier *fakeNotifier
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	m := newMemDB()
	notifier := &fakeNotifier{}
	clock := &testClock{now: time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)}
	xlsexport.NewHandler()
	return testEnv{
		db:       m,
		notifier: notifier,
		handler: impl{
			store:           memAppealStore{db: m},
			historyStore:    memHistoryStore{db: m},
			attendanceStore: memAttendanceStore{db: m},
			candidateStore:  memCandidateStore{db: m},
			courseStore:     memCourseStore{db: m},
			notifier:        notifier,
			xlsExporter:     xlsexport.Instance,
			tx:              m.transactor(),
			settings: Settings{
				MinReasonLength: 10,
				MaxDocuments:    3,
				SubmitLockWait:  time.Second,
			},
			now:   clock.Now,
			newID: uuid.NewString,
		},
	}
}
