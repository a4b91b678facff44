package coverr

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage renders actionable guidance for err. Each kind has its own text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if !errors.As(err, &e) {
		return "Unexpected error: " + err.Error()
	}

	switch e.Kind {
	case KindConfigurationMissing:
		if len(e.Keys) > 0 {
			return fmt.Sprintf("Set %s in the configuration before generating a cover.", strings.Join(e.Keys, " and "))
		}
		return "Configure the API token and workflow ID before generating a cover."
	case KindSubmissionFailed:
		if e.StatusCode == 0 {
			return "Could not reach the workflow API. Check the network connection and base URL."
		}
		return fmt.Sprintf("The workflow API rejected the request (HTTP %d). Check the API token and workflow ID.", e.StatusCode)
	case KindExecutionIDMissing:
		return fmt.Sprintf("The workflow API returned no execution ID (response keys: %s).", strings.Join(e.Keys, ", "))
	case KindPollTransportError:
		return "Lost contact with the workflow API while checking progress."
	case KindPollTimeout:
		return fmt.Sprintf("The workflow did not finish after %d status checks. Try again later.", e.Attempts)
	case KindWorkflowExecutionFailed:
		return "The workflow failed: " + e.Message
	case KindNoImageFound:
		return "The workflow finished but its output contained no image URL. Check the workflow's output node."
	case KindTitleNotFound:
		return "No article title was found. Enter or detect a title first."
	case KindUnsupportedPage:
		return "This page cannot be read. Open an article in a supported editor."
	case KindPageUnavailable:
		return "Could not load the page. Refresh it and try again."
	default:
		return e.Error()
	}
}
