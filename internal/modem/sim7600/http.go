package sim7600

import (
	"fmt"

	"github.com/LeoCommon/safetrack/internal/modem"
	"github.com/LeoCommon/safetrack/internal/modem/sim7600/atparser"
	"github.com/LeoCommon/safetrack/pkg/log"
	"go.uber.org/zap"
)

// Request describes a single POST
type Request struct {
	URL         string
	Body        string
	ContentType string
}

// Transaction records every classified step of one POST
type Transaction struct {
	Request Request
	Steps   []modem.Result

	// FailedStep is the index of the first step that did not succeed, -1 if none
	FailedStep int

	// Status is the HTTP status from +HTTPACTION, 0 if it did not arrive in time
	Status int
}

// Succeeded only looks at the action step, earlier failures are informational
func (t Transaction) Succeeded() bool {
	if len(t.Steps) == 0 {
		return false
	}

	last := t.Steps[len(t.Steps)-1]
	return last.Command == actionCommand() && last.Succeeded()
}

func actionCommand() string {
	return fmt.Sprintf("%s=%d", AtHTTPAction, HTTPMethodPost)
}

// PrepareSteps are the commands sent before the body, their outcomes are not
// checked
func PrepareSteps(req Request) []Step {
	return []Step{
		// Clear any stale context, fails when none exists
		{AtHTTPTerm, DefaultCommandTimeout},
		{AtHTTPInit, DefaultCommandTimeout},
		{fmt.Sprintf(`%s="CID",1`, AtHTTPPara), DefaultCommandTimeout},
		{fmt.Sprintf(`%s="URL","%s"`, AtHTTPPara, req.URL), DefaultCommandTimeout},
		{fmt.Sprintf(`%s="CONTENT","%s"`, AtHTTPPara, req.ContentType), DefaultCommandTimeout},
		{fmt.Sprintf("%s=%d,%d", AtHTTPData, len(req.Body), HTTPDataWindow.Milliseconds()), DefaultCommandTimeout},
	}
}

// HTTP drives the modem's built-in HTTP stack
type HTTP struct {
	cmd   Commander
	clock modem.Clock
}

func NewHTTP(cmd Commander, clock modem.Clock) *HTTP {
	if clock == nil {
		clock = modem.SystemClock{}
	}

	return &HTTP{cmd: cmd, clock: clock}
}

// Post returns true if the modem accepted the action command
func (h *HTTP) Post(url string, body string, contentType string) bool {
	return h.Transact(Request{URL: url, Body: body, ContentType: contentType}).Succeeded()
}

func (h *HTTP) Transact(req Request) Transaction {
	if req.ContentType == "" {
		req.ContentType = DefaultContentType
	}

	tx := Transaction{Request: req, FailedStep: -1}

	record := func(res modem.Result) {
		tx.Steps = append(tx.Steps, res)
		if !res.Succeeded() && tx.FailedStep < 0 {
			tx.FailedStep = len(tx.Steps) - 1
		}
	}

	for i, step := range PrepareSteps(req) {
		res := h.cmd.Exec(step.Command, step.Timeout)
		record(res)

		if !res.Succeeded() {
			log.Warn("http preparation step failed, continuing",
				zap.Int("step", i+1),
				zap.String("cmd", step.Command),
				zap.String("rsp", res.Response))
		}
	}

	// Give the modem time to switch into data mode before streaming the body
	h.clock.Sleep(HTTPDataSettle)
	if err := h.cmd.Write([]byte(req.Body)); err != nil {
		log.Error("writing http body failed", zap.Int("len", len(req.Body)), zap.Error(err))
	}

	res := h.cmd.Exec(actionCommand(), HTTPActionTimeout)
	record(res)

	// The status report is optional, it may arrive after the window closed
	if line, err := atparser.Find(modem.Lines(res.Response), atparser.HeaderHTTPAction); err == nil {
		action, err := atparser.HTTPAction(line)
		if err != nil {
			log.Warn("could not parse http action result", zap.String("line", line), zap.Error(err))
		} else {
			tx.Status = action.Status
		}
	}

	if !tx.Succeeded() {
		log.Error("HTTP POST failed", zap.String("url", req.URL), zap.String("rsp", res.Response))
		return tx
	}

	log.Info("HTTP POST sent", zap.String("url", req.URL), zap.Int("status", tx.Status), zap.Int("len", len(req.Body)))
	return tx
}
