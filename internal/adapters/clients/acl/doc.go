// Package acl is the boundary between raw GitHub HTTP exchanges and the
// domain model.
//
// Outbound, an [Adapter] turns a [Call] into a request: parameters are
// validated first, then the path template is expanded and the
// request built, so a bad call never reaches the network.
//
// Inbound, [MapHTTPError] translates every non-2xx response into exactly one
// *domain.ResponseError whose kind follows the status:
//
//	404 → domain.ErrNotFound
//	401 → domain.ErrUnauthorized
//	403 → domain.ErrForbidden
//	422 → domain.ErrUnprocessable (and domain.ErrValidationFailed with field errors)
//	other → domain.ErrHTTP
//
// Successful bodies are decoded by [DecodeRecord] and [DecodeRecords] into
// schema-less records that keep every field the API sent.
//
// Resource services build on the adapter:
//
//	adapter := acl.NewAdapter(httpClient)
//	rec, err := adapter.Record(ctx, acl.Call{
//	    Endpoint:  createIssue,
//	    Args:      []any{user, repo},
//	    Params:    params,
//	    Operation: "create issue",
//	})
package acl
