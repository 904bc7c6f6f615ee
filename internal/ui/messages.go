package ui

import (
	"time"

	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/eventlist"
)

// Message types for the app
type (
	recordsLoadedMsg struct {
		records []api.MedicalRecord
		err     error
	}

	typesLoadedMsg struct {
		types []api.EventType
		err   error
	}

	eventsLoadedMsg struct {
		result eventlist.Result
	}

	// recordsChangedMsg ends an upload or delete of a patient file
	recordsChangedMsg struct {
		op      recordOp
		err     error
		records []api.MedicalRecord
		listErr error
	}

	// typesChangedMsg ends a create or delete of a category
	typesChangedMsg struct {
		op      typeOp
		id      string
		err     error
		types   []api.EventType
		listErr error
	}

	alertsGeneratedMsg struct {
		filename string
		resp     *api.AlertResponse
		err      error
	}

	toastExpiredMsg struct {
		id int
	}

	overlayTickMsg time.Time
)

type recordOp int

const (
	recordUpload recordOp = iota
	recordDelete
)

type typeOp int

const (
	typeCreate typeOp = iota
	typeDelete
)
