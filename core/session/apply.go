package session

import (
	"context"
	"fmt"

	"github.com/stratosedge/portal/core/account"
	"github.com/stratosedge/portal/core/application"
	"github.com/stratosedge/portal/core/course"
	"github.com/stratosedge/portal/core/profile"
)

// ApplyStep is where an "apply" click on a course leads.
type ApplyStep string

const (
	StepLogin           ApplyStep = "login"
	StepCompleteProfile ApplyStep = "complete_profile"
	StepAlreadyApplied  ApplyStep = "already_applied"
	StepApply           ApplyStep = "apply"
)

// NextApplyStep routes an apply click: anonymous users log in, incomplete
// profiles get completed first, and a course is applied to at most once.
func NextApplyStep(st State, courseID int) ApplyStep {
	switch {
	case st.User == nil:
		return StepLogin
	case st.User.HasApplied(courseID):
		return StepAlreadyApplied
	case !profile.IsComplete(st.User):
		return StepCompleteProfile
	default:
		return StepApply
	}
}

// ApplyResult is the outcome of an apply click.
type ApplyResult struct {
	Step       ApplyStep             `json:"step"`
	State      State                 `json:"state"`
	Submission application.FlowState `json:"submission"`
}

// Apply handles an apply click on c: it opens the modal matching the next step,
// and starts an application flow when the applicant can apply.
func (b *Bridge) Apply(sess account.Session, c course.Course) (ApplyResult, error) {
	step := NextApplyStep(b.State(sess), c.ID)
	flow := b.store.Flow(sess.ID)

	var st State
	switch step {
	case StepLogin:
		st = b.store.Dispatch(sess.ID, OpenModal{Modal: ModalLogin})
	case StepCompleteProfile:
		st = b.store.Dispatch(sess.ID, SelectCourse{CourseID: c.ID}, OpenModal{Modal: ModalProfileCompletion})
	case StepAlreadyApplied:
		st = b.State(sess)
	case StepApply:
		if err := flow.Open(c); err != nil {
			return ApplyResult{Step: step, State: b.State(sess), Submission: flow.Snapshot()}, err
		}
		st = b.store.Dispatch(sess.ID, SelectCourse{CourseID: c.ID}, OpenModal{Modal: ModalApplication})
	}
	return ApplyResult{Step: step, State: st, Submission: flow.Snapshot()}, nil
}

// Submission returns the state of the session's application flow.
func (b *Bridge) Submission(sess account.Session) application.FlowState {
	return b.store.Flow(sess.ID).Snapshot()
}

// ConfirmApplication submits the open application. A store failure is logged
// and reported through the flow's failed state, not as an error.
func (b *Bridge) ConfirmApplication(ctx context.Context, sess account.Session) (application.FlowState, error) {
	var submitErr error
	submit := func(ctx context.Context, c course.Course) error {
		st := b.State(sess)
		if st.User == nil {
			submitErr = ErrUserNotLoaded
			return submitErr
		}
		if _, err := b.apps.Submit(ctx, *st.User, sess.Email, c); err != nil {
			submitErr = err
			return err
		}
		b.store.Apply(sess.ID, ApplicationRecorded{CourseID: c.ID})
		return nil
	}

	fs, err := b.store.Flow(sess.ID).Confirm(ctx, submit)
	if err != nil && err == submitErr {
		b.logger.Error(fmt.Sprintf("submitting application: %v", err), err, sess)
		return fs, nil
	}
	return fs, err
}

func (b *Bridge) RetryApplication(sess account.Session) (application.FlowState, error) {
	return b.store.Flow(sess.ID).Retry()
}

// CloseApplication dismisses the application modal.
func (b *Bridge) CloseApplication(sess account.Session) (State, error) {
	if err := b.store.Flow(sess.ID).Close(); err != nil {
		return b.State(sess), err
	}
	return b.store.Dispatch(sess.ID, closeApplication{}), nil
}
