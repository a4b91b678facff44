package cover

import (
	"context"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/workflow"
)

// CredentialStore supplies the API token and workflow id for a run.
type CredentialStore interface {
	Credentials(ctx context.Context) (workflow.Credentials, error)
}

// StaticCredentials serves fixed credentials, typically from configuration.
type StaticCredentials workflow.Credentials

func (s StaticCredentials) Credentials(context.Context) (workflow.Credentials, error) {
	return workflow.Credentials(s), nil
}

// OverrideCredentials layers per-request values over a base store. Empty
// override fields fall through to the base.
type OverrideCredentials struct {
	Base     CredentialStore
	Override workflow.Credentials
}

func (o OverrideCredentials) Credentials(ctx context.Context) (workflow.Credentials, error) {
	creds := workflow.Credentials{}
	if o.Base != nil {
		base, err := o.Base.Credentials(ctx)
		if err != nil {
			return workflow.Credentials{}, err
		}
		creds = base
	}
	if o.Override.APIToken != "" {
		creds.APIToken = o.Override.APIToken
	}
	if o.Override.WorkflowID != "" {
		creds.WorkflowID = o.Override.WorkflowID
	}
	return creds, nil
}
