package presenter

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/otpx/internal/models"
)

// JournalObserver records shown account names and the session outcome in a [models.Journal].
//
// Journal failures are logged and never interrupt the presentation.
type JournalObserver struct {
	journal models.Journal
	logger  *log.Logger
	now     func() time.Time
	session *models.Session
}

// NewJournalObserver creates an observer writing to journal.
func NewJournalObserver(journal models.Journal, logger *log.Logger) *JournalObserver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &JournalObserver{journal: journal, logger: logger, now: time.Now}
}

// Session returns the journal session opened by the observer, or nil before [EventStarted].
func (o *JournalObserver) Session() *models.Session {
	return o.session
}

// Observe implements [Observer].
func (o *JournalObserver) Observe(event Event) {
	switch event.Kind {
	case EventStarted:
		session, err := o.journal.StartSession(o.now())
		if err != nil {
			o.logger.Warn("failed to start journal session", "error", err)
			return
		}
		o.session = session
		o.logger.Debug("journal session started", "session", session.ID)

	case EventShown:
		if o.session == nil {
			return
		}
		err := o.journal.RecordPresentation(models.Presentation{
			SessionID: o.session.ID,
			Position:  event.Index,
			Name:      event.Name,
			Issuer:    event.Issuer,
			ShownAt:   o.now(),
		})
		if err != nil {
			o.logger.Warn("failed to record presentation", "name", event.Name, "error", err)
		}

	case EventCompleted, EventCancelled, EventFailed:
		if o.session == nil {
			return
		}
		outcome := models.OutcomeCompleted
		switch event.Kind {
		case EventCancelled:
			outcome = models.OutcomeCancelled
		case EventFailed:
			outcome = models.OutcomeFailed
		}
		if err := o.journal.FinishSession(o.session.ID, outcome, o.now()); err != nil {
			o.logger.Warn("failed to finish journal session", "session", o.session.ID, "error", err)
		}
	}
}
