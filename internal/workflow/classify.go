package workflow

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/coverr"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/extract"
)

var debugExecuteID = regexp.MustCompile(`execute_id=([0-9]+)`)

// executionIDPaths are probed in order before falling back to debug_url.
var executionIDPaths = []string{"data.execute_id", "execute_id", "id", "data.id"}

// Classify interprets a submission response. A zero code with a present data
// field is an inline result; anything else must carry an execution id.
func Classify(doc gjson.Result) (RunResult, error) {
	code := doc.Get("code")
	if code.Type == gjson.Number && code.Num == 0 && extract.Truthy(doc.Get("data")) {
		return RunResult{Mode: ModeSync, Payload: doc}, nil
	}

	id, ok := ExecutionID(doc)
	if !ok {
		return RunResult{}, coverr.ExecutionIDMissing(topLevelKeys(doc))
	}

	return RunResult{Mode: ModeAsync, ExecutionID: id}, nil
}

// ExecutionID finds the execution id of an asynchronous submission.
func ExecutionID(doc gjson.Result) (string, bool) {
	for _, path := range executionIDPaths {
		if v := doc.Get(path); extract.Truthy(v) {
			return v.String(), true
		}
	}

	if dbg := doc.Get("debug_url"); dbg.Type == gjson.String {
		if m := debugExecuteID.FindStringSubmatch(dbg.Str); m != nil {
			return m[1], true
		}
	}

	return "", false
}

func topLevelKeys(doc gjson.Result) []string {
	keys := []string{}
	if !doc.IsObject() {
		return keys
	}
	doc.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

var (
	statusPaths  = []string{"data.status", "status", "data.state", "state"}
	messagePaths = []string{"data.error_message", "error_message", "data.error", "error"}
)

const defaultFailureMessage = "unknown error"

// Interpret derives the state of a run from a status document. Status
// matching ignores case; unknown or missing statuses count as running.
func Interpret(doc gjson.Result) PollOutcome {
	status := firstPresent(doc, statusPaths)

	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "SUCCESS", "COMPLETED", "FINISHED":
		return PollOutcome{State: StateSucceeded, Status: status, Payload: doc}
	case "FAILED", "ERROR":
		msg := firstPresent(doc, messagePaths)
		if msg == "" {
			msg = defaultFailureMessage
		}
		return PollOutcome{State: StateFailed, Status: status, Message: msg}
	default:
		return PollOutcome{State: StateRunning, Status: status}
	}
}

func firstPresent(doc gjson.Result, paths []string) string {
	for _, path := range paths {
		if v := doc.Get(path); extract.Truthy(v) {
			return v.String()
		}
	}
	return ""
}
