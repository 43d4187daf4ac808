package sim7600

import (
	"fmt"
	"time"

	"github.com/LeoCommon/safetrack/pkg/log"
	"go.uber.org/zap"
)

// Step is one command of a fixed sequence
type Step struct {
	Command string
	Timeout time.Duration
}

// InitSteps lists the commands that bring the modem onto the packet network
func InitSteps(apn string) []Step {
	return []Step{
		{AtPing, DefaultCommandTimeout},
		{AtFullFunction, DefaultCommandTimeout},
		{AtSimStatus, DefaultCommandTimeout},
		{AtSignal, DefaultCommandTimeout},
		{AtRegistration, DefaultCommandTimeout},
		{AtAttach, DefaultCommandTimeout},
		{fmt.Sprintf(`%s=1,"IP","%s"`, AtPdpContext, apn), DefaultCommandTimeout},
		{AtPdpActivate, DefaultCommandTimeout},
		// Opening the network negotiates with the carrier
		{AtNetOpen, NetOpenTimeout},
	}
}

type SessionState int

const (
	StateIdle SessionState = iota
	StateInitializing
	StateReady
	StateAborted
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("%d", int(s))
	}
}

// Session runs the modem initialization sequence
type Session struct {
	cmd   Commander
	apn   string
	steps []Step

	state      SessionState
	failedStep int
}

func NewSession(cmd Commander, apn string) *Session {
	if apn == "" {
		apn = DefaultAPN
	}

	return &Session{
		cmd:        cmd,
		apn:        apn,
		steps:      InitSteps(apn),
		failedStep: -1,
	}
}

// Initialize walks the steps in order and stops at the first failure.
// A failed attempt is final, call Initialize again to start over.
func (s *Session) Initialize() bool {
	log.Info("initializing SIM7600", zap.String("apn", s.apn))

	s.state = StateInitializing
	s.failedStep = -1

	for i, step := range s.steps {
		res := s.cmd.Exec(step.Command, step.Timeout)
		if !res.Succeeded() {
			s.state = StateAborted
			s.failedStep = i
			log.Error("modem initialization aborted",
				zap.Int("step", i+1),
				zap.Int("of", len(s.steps)),
				zap.String("cmd", step.Command),
				zap.String("rsp", res.Response),
				zap.Bool("timeout", res.TimedOut()))
			return false
		}
	}

	s.state = StateReady
	log.Info("SIM7600 successfully initialized")
	return true
}

func (s *Session) State() SessionState {
	return s.state
}

func (s *Session) Ready() bool {
	return s.state == StateReady
}

// Invalidate drops a ready session, the next user has to Initialize again
func (s *Session) Invalidate() {
	if s.state == StateReady {
		log.Warn("modem session invalidated")
	}
	s.state = StateIdle
}

// FailedStep is the zero based index of the step that aborted the last
// attempt, -1 if it did not abort
func (s *Session) FailedStep() int {
	return s.failedStep
}

func (s *Session) APN() string {
	return s.apn
}
