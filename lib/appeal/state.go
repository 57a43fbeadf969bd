package appealhandler

import (
	"labor-mobility-backend/models"
	"labor-mobility-backend/models/apperrors"
	"slices"
)

type transitionKind string

const (
	cancelTransition   transitionKind = "cancel"
	reviewTransition   transitionKind = "review"
	overrideTransition transitionKind = "override"
)

// Nothing ever moves back to PENDING.
var transitions = map[transitionKind]map[models.AppealStatus][]models.AppealStatus{
	cancelTransition: {
		models.AppealStatusPending: {models.AppealStatusCancelled},
	},
	reviewTransition: {
		models.AppealStatusPending: {models.AppealStatusApproved, models.AppealStatusRejected},
	},
	overrideTransition: {
		models.AppealStatusPending:   {models.AppealStatusApproved, models.AppealStatusRejected},
		models.AppealStatusApproved:  {models.AppealStatusApproved, models.AppealStatusRejected},
		models.AppealStatusRejected:  {models.AppealStatusApproved, models.AppealStatusRejected},
		models.AppealStatusCancelled: {models.AppealStatusApproved, models.AppealStatusRejected},
	},
}

var transitionRejections = map[transitionKind]string{
	cancelTransition:   "only pending appeals can be cancelled",
	reviewTransition:   "only pending appeals can be reviewed",
	overrideTransition: "an override can only approve or reject an appeal",
}

func checkTransition(kind transitionKind, from, to models.AppealStatus) error {
	if slices.Contains(transitions[kind][from], to) {
		return nil
	}
	if kind == overrideTransition {
		return apperrors.Validation("%s", transitionRejections[kind])
	}
	return apperrors.Conflict("%s (current status: %s)", transitionRejections[kind], from)
}
