package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stratosedge/portal/core/course"
)

// FlowStatus is the state of the application modal.
type FlowStatus string

const (
	FlowIdle       FlowStatus = "idle"
	FlowProcessing FlowStatus = "processing"
	FlowSuccess    FlowStatus = "success"
	FlowFailed     FlowStatus = "failed"
)

const FailureMessage = "Could not submit application. Please try again."

var (
	afterFunc = time.AfterFunc // mockable

	ErrFlowClosed   = errors.New("no application in progress")
	ErrFlowBusy     = errors.New("application is being submitted")
	ErrFlowNotIdle  = errors.New("application was already confirmed")
	ErrFlowNotRetry = errors.New("only a failed application can be retried")
)

// FlowState is a snapshot of a Flow.
type FlowState struct {
	Open     bool       `json:"open"`
	Status   FlowStatus `json:"status"`
	CourseID int        `json:"courseId,omitempty"`
	Message  string     `json:"message,omitempty"`
}

// Flow drives one applicant's submission: idle -> processing -> success | failed.
// failed goes back to idle on Retry; success closes by itself after the auto-close delay.
type Flow struct {
	mu        sync.Mutex
	open      bool
	status    FlowStatus
	course    course.Course
	message   string
	timer     *time.Timer
	gen       uint64 // bumped on every Open; stale auto-close timers compare it
	autoClose time.Duration
	onClose   func()
}

// NewFlow returns a closed flow. onClose, when set, runs after every close.
func NewFlow(autoClose time.Duration, onClose func()) *Flow {
	return &Flow{status: FlowIdle, autoClose: autoClose, onClose: onClose}
}

// Open starts a new submission for c. An in-flight submission cannot be replaced.
func (f *Flow) Open(c course.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.open && f.status == FlowProcessing {
		return ErrFlowBusy
	}
	f.stopTimer()
	f.gen++
	f.open = true
	f.status = FlowIdle
	f.course = c
	f.message = ""
	return nil
}

// Confirm runs submit for the open course. Only an idle flow can be confirmed.
// On failure the flow moves to failed and its message becomes FailureMessage.
func (f *Flow) Confirm(ctx context.Context, submit func(ctx context.Context, c course.Course) error) (FlowState, error) {
	f.mu.Lock()
	if !f.open {
		f.mu.Unlock()
		return FlowState{}, ErrFlowClosed
	}
	if f.status == FlowProcessing {
		state := f.snapshot()
		f.mu.Unlock()
		return state, ErrFlowBusy
	}
	if f.status != FlowIdle {
		state := f.snapshot()
		f.mu.Unlock()
		return state, ErrFlowNotIdle
	}
	f.status = FlowProcessing
	c := f.course
	gen := f.gen
	f.mu.Unlock()

	err := submit(ctx, c)

	f.mu.Lock()
	if !f.open || f.gen != gen { // stopped or replaced meanwhile
		f.mu.Unlock()
		return FlowState{}, err
	}
	if err != nil {
		f.status = FlowFailed
		f.message = FailureMessage
	} else {
		f.status = FlowSuccess
		f.message = ""
		f.timer = afterFunc(f.autoClose, func() { f.autoCloseIf(gen) })
	}
	state := f.snapshot()
	f.mu.Unlock()
	return state, err
}

// Retry moves a failed flow back to idle.
func (f *Flow) Retry() (FlowState, error) {
	f.mu.Lock()
	if !f.open {
		f.mu.Unlock()
		return FlowState{}, ErrFlowClosed
	}
	if f.status != FlowFailed {
		state := f.snapshot()
		f.mu.Unlock()
		return state, ErrFlowNotRetry
	}
	f.status = FlowIdle
	f.message = ""
	state := f.snapshot()
	f.mu.Unlock()
	return state, nil
}

// Close dismisses the flow. A submission in progress cannot be dismissed.
func (f *Flow) Close() error {
	f.mu.Lock()
	if !f.open {
		f.mu.Unlock()
		return nil
	}
	if f.status == FlowProcessing {
		f.mu.Unlock()
		return ErrFlowBusy
	}
	f.reset()
	onClose := f.onClose
	f.mu.Unlock()

	if onClose != nil {
		onClose()
	}
	return nil
}

func (f *Flow) autoCloseIf(gen uint64) {
	f.mu.Lock()
	if !f.open || f.gen != gen || f.status != FlowSuccess {
		f.mu.Unlock()
		return
	}
	f.reset()
	onClose := f.onClose
	f.mu.Unlock()

	if onClose != nil {
		onClose()
	}
}

// Stop resets the flow without running onClose. Used when the session ends.
func (f *Flow) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

// reset closes the flow. Caller holds the lock.
func (f *Flow) reset() {
	f.stopTimer()
	f.open = false
	f.status = FlowIdle
	f.course = course.Course{}
	f.message = ""
}

func (f *Flow) stopTimer() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

func (f *Flow) Snapshot() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

func (f *Flow) snapshot() FlowState {
	if !f.open {
		return FlowState{Status: FlowIdle}
	}
	return FlowState{
		Open:     true,
		Status:   f.status,
		CourseID: f.course.ID,
		Message:  f.message,
	}
}
