// Package github is a client for the GitHub Issues REST API.
//
// A [Client] owns an [Issues] service, which in turn owns the [Comments],
// [Events], [Labels] and [Milestones] sub-services. Every call validates its
// parameters before anything is sent, issues exactly one HTTP request, and
// returns either a typed view over the response body or an error that
// matches one of the package sentinels:
//
//	client, err := github.NewClient(github.WithToken(os.Getenv("GITHUB_TOKEN")))
//	if err != nil {
//	    return err
//	}
//
//	issue, err := client.Issues.Create(ctx, "octocat", "hello-world", github.Params{
//	    "title":  "Found a bug",
//	    "labels": []string{"bug"},
//	})
//	switch {
//	case errors.Is(err, github.ErrRequiredParams):
//	    // nothing was sent
//	case errors.Is(err, github.ErrNotFound):
//	    // no such repository, or no access to it
//	case err != nil:
//	    return err
//	}
//	fmt.Println(issue.Number(), issue.Title())
//
// Response bodies are kept whole: views such as [Issue] embed a [*Record]
// holding every field GitHub sent, in order, so fields without a typed
// accessor remain reachable through GetString, Lookup and friends.
package github
