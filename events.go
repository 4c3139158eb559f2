package staircase

import (
	"time"

	"github.com/five82/staircase/internal/reporter"
)

// EventType identifies the kind of an Event.
type EventType string

const (
	EventTypeRunStarted    EventType = "run_started"
	EventTypeTrial         EventType = "trial"
	EventTypeRunComplete   EventType = "run_complete"
	EventTypeBatchComplete EventType = "batch_complete"
	EventTypeWarning       EventType = "warning"
	EventTypeError         EventType = "error"
)

// Event is delivered to an EventHandler as a run progresses.
type Event interface {
	Type() EventType
}

// EventHandler receives events. Returned errors are ignored.
type EventHandler func(Event) error

// Timestamp is a Unix time in seconds.
type Timestamp int64

// NewTimestamp returns the current time.
func NewTimestamp() Timestamp {
	return Timestamp(time.Now().Unix())
}

// BaseEvent carries the fields shared by every event.
type BaseEvent struct {
	EventType EventType `json:"type"`
	Time      Timestamp `json:"timestamp"`
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// RunStartedEvent is sent before the first trial.
type RunStartedEvent struct {
	BaseEvent
	RunID     string `json:"run_id"`
	Condition string `json:"condition"`
	Rule      string `json:"rule"`
}

// TrialEvent is sent after every trial.
type TrialEvent struct {
	BaseEvent
	RunID      string  `json:"run_id"`
	Trial      int     `json:"trial"`
	Difference float64 `json:"difference"`
	Correct    bool    `json:"correct"`
	NextStep   float64 `json:"next_step"`
	Turns      int     `json:"turns"`
	Progress   float64 `json:"progress"`
}

// RunCompleteEvent is sent when a run stops.
type RunCompleteEvent struct {
	BaseEvent
	RunID              string  `json:"run_id"`
	Condition          string  `json:"condition"`
	Reason             string  `json:"reason"`
	Threshold          float64 `json:"threshold"`
	GeometricThreshold float64 `json:"geometric_threshold"`
	Trials             int     `json:"trials"`
}

// BatchCompleteEvent is sent when every run of a batch has stopped.
type BatchCompleteEvent struct {
	BaseEvent
	TotalRuns      int     `json:"total_runs"`
	ConvergedCount int     `json:"converged_count"`
	MeanThreshold  float64 `json:"mean_threshold"`
}

// WarningEvent carries a warning message.
type WarningEvent struct {
	BaseEvent
	Message string `json:"message"`
}

// ErrorEvent carries a failure.
type ErrorEvent struct {
	BaseEvent
	Title      string `json:"title"`
	Message    string `json:"message"`
	Context    string `json:"context,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// eventReporter adapts EventHandler to the Reporter interface.
type eventReporter struct {
	handler EventHandler
}

func newEventReporter(handler EventHandler) *eventReporter {
	return &eventReporter{handler: handler}
}

func (r *eventReporter) RunStarted(info reporter.RunInfo) {
	_ = r.handler(RunStartedEvent{
		BaseEvent: BaseEvent{EventType: EventTypeRunStarted, Time: NewTimestamp()},
		RunID:     info.RunID,
		Condition: info.Condition,
		Rule:      info.Rule,
	})
}

func (r *eventReporter) TrialComplete(u reporter.TrialUpdate) {
	_ = r.handler(TrialEvent{
		BaseEvent:  BaseEvent{EventType: EventTypeTrial, Time: NewTimestamp()},
		RunID:      u.RunID,
		Trial:      u.Trial,
		Difference: u.Difference,
		Correct:    u.Correct,
		NextStep:   u.NextStep,
		Turns:      u.Turns,
		Progress:   u.Progress,
	})
}

func (r *eventReporter) RunComplete(o reporter.RunOutcome) {
	_ = r.handler(RunCompleteEvent{
		BaseEvent:          BaseEvent{EventType: EventTypeRunComplete, Time: NewTimestamp()},
		RunID:              o.RunID,
		Condition:          o.Condition,
		Reason:             o.Reason,
		Threshold:          o.Threshold,
		GeometricThreshold: o.GeometricThreshold,
		Trials:             o.Trials,
	})
}

func (r *eventReporter) BatchStarted(reporter.BatchStartInfo) {}

func (r *eventReporter) BatchComplete(s reporter.BatchSummary) {
	_ = r.handler(BatchCompleteEvent{
		BaseEvent:      BaseEvent{EventType: EventTypeBatchComplete, Time: NewTimestamp()},
		TotalRuns:      s.TotalRuns,
		ConvergedCount: s.ConvergedCount,
		MeanThreshold:  s.MeanThreshold,
	})
}

func (r *eventReporter) Warning(message string) {
	_ = r.handler(WarningEvent{
		BaseEvent: BaseEvent{EventType: EventTypeWarning, Time: NewTimestamp()},
		Message:   message,
	})
}

func (r *eventReporter) Error(e reporter.ReporterError) {
	_ = r.handler(ErrorEvent{
		BaseEvent:  BaseEvent{EventType: EventTypeError, Time: NewTimestamp()},
		Title:      e.Title,
		Message:    e.Message,
		Context:    e.Context,
		Suggestion: e.Suggestion,
	})
}

func (r *eventReporter) Verbose(string) {}
