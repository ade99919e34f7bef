package dashboard

import (
	"context"

	"github.com/qmuntal/stateless"

	"github.com/liut/cryptopulse/pkg/models/pulse"
)

// panel triggers
const (
	triggerSubmit  = "submit"
	triggerSucceed = "succeed"
	triggerFail    = "fail"
)

// newPanelFSM binds a state machine to the state field of a panel
func newPanelFSM(p *pulse.Panel) *stateless.StateMachine {
	sm := stateless.NewStateMachineWithExternalStorage(
		func(_ context.Context) (stateless.State, error) {
			if len(p.State) == 0 {
				return pulse.StateIdle, nil
			}
			return p.State, nil
		},
		func(_ context.Context, s stateless.State) error {
			p.State = s.(pulse.PanelState)
			return nil
		},
		stateless.FiringImmediate,
	)

	sm.Configure(pulse.StateIdle).
		Permit(triggerSubmit, pulse.StateAwaiting)

	// a request left over from a broken process may be resubmitted
	sm.Configure(pulse.StateAwaiting).
		PermitReentry(triggerSubmit).
		Permit(triggerSucceed, pulse.StateRendered).
		Permit(triggerFail, pulse.StateFailed)

	sm.Configure(pulse.StateRendered).
		Permit(triggerSubmit, pulse.StateAwaiting)

	sm.Configure(pulse.StateFailed).
		Permit(triggerSubmit, pulse.StateAwaiting)

	return sm
}

// panelRun tracks one operation on one panel
type panelRun struct {
	name  pulse.PanelName
	panel *pulse.Panel
	sm    *stateless.StateMachine
}

func beginPanel(sess *pulse.Session, name pulse.PanelName) *panelRun {
	p := sess.Panel(name)
	pr := &panelRun{name: name, panel: p, sm: newPanelFSM(p)}
	if err := pr.sm.Fire(triggerSubmit); err != nil {
		logger().Warnw("panel fire fail", "panel", name, "err", err)
		p.State = pulse.StateAwaiting
	}
	p.Notice = nil
	return pr
}

// finish settles the panel, failure notices move it to failed
func (pr *panelRun) finish(notice *pulse.Notice) {
	pr.panel.Notice = notice
	trigger := triggerSucceed
	if notice.IsFailure() {
		trigger = triggerFail
	}
	if err := pr.sm.Fire(trigger); err != nil {
		logger().Warnw("panel fire fail", "panel", pr.name, "trigger", trigger, "err", err)
	}
	logger().Debugw("panel done", "panel", pr.name, "state", pr.panel.State)
}
