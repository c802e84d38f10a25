package github

import (
	"context"

	"github.com/jsamuelsen/go-github-issues/internal/adapters/clients/acl"
)

// one performs call and wraps the object body in a view.
func one[T any](ctx context.Context, a *acl.Adapter, call acl.Call, wrap func(*Record) T) (*T, error) {
	rec, err := a.Record(ctx, call)
	if err != nil {
		return nil, err
	}

	view := wrap(rec)
	return &view, nil
}

// many performs call and wraps every element of the array body.
func many[T any](ctx context.Context, a *acl.Adapter, call acl.Call, wrap func(*Record) T) ([]T, error) {
	recs, err := a.Records(ctx, call)
	if err != nil {
		return nil, err
	}

	return acl.TranslateSlice(recs, wrap), nil
}

func asIssue(r *Record) Issue         { return Issue{r} }
func asComment(r *Record) Comment     { return Comment{r} }
func asLabel(r *Record) Label         { return Label{r} }
func asMilestone(r *Record) Milestone { return Milestone{r} }
func asEvent(r *Record) Event         { return Event{r} }
