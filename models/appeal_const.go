package models

type AppealStatus string

const (
	AppealStatusPending   AppealStatus = "PENDING"
	AppealStatusApproved  AppealStatus = "APPROVED"
	AppealStatusRejected  AppealStatus = "REJECTED"
	AppealStatusCancelled AppealStatus = "CANCELLED"
)

// listing order, never lexical
var appealStatusRank = map[AppealStatus]int{
	AppealStatusPending:   0,
	AppealStatusApproved:  1,
	AppealStatusRejected:  2,
	AppealStatusCancelled: 3,
}

var appealStatusHumanName = map[AppealStatus]string{
	AppealStatusPending:   "Pending",
	AppealStatusApproved:  "Approved",
	AppealStatusRejected:  "Rejected",
	AppealStatusCancelled: "Cancelled",
}

func (s AppealStatus) ToHuman() string {
	if human, exist := appealStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s AppealStatus) IsValid() bool {
	_, ok := appealStatusRank[s]
	return ok
}

// Rank returns the position of the status in appeal listings.
func (s AppealStatus) Rank() int {
	if rank, ok := appealStatusRank[s]; ok {
		return rank
	}
	return len(appealStatusRank)
}

// IsActive reports whether the status blocks another appeal for the same attendance record.
func (s AppealStatus) IsActive() bool {
	return s == AppealStatusPending || s == AppealStatusApproved
}

func (s AppealStatus) IsDecision() bool {
	return s == AppealStatusApproved || s == AppealStatusRejected
}

func ActiveAppealStatuses() []AppealStatus {
	return []AppealStatus{AppealStatusPending, AppealStatusApproved}
}

func AppealStatusesByRank() []AppealStatus {
	return []AppealStatus{
		AppealStatusPending,
		AppealStatusApproved,
		AppealStatusRejected,
		AppealStatusCancelled,
	}
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceExcused AttendanceStatus = "EXCUSED"
)

// DefaultApprovedAttendance is applied on approval when neither reviewer nor candidate named a status.
const DefaultApprovedAttendance = AttendanceExcused

var attendanceStatusHumanName = map[AttendanceStatus]string{
	AttendancePresent: "Present",
	AttendanceAbsent:  "Absent",
	AttendanceLate:    "Late",
	AttendanceExcused: "Excused",
}

func (s AttendanceStatus) ToHuman() string {
	if human, exist := attendanceStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s AttendanceStatus) IsValid() bool {
	_, ok := attendanceStatusHumanName[s]
	return ok
}

const AdminOverrideMarker = "[ADMIN OVERRIDE]"
