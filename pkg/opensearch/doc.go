// Package opensearch wraps github.com/opensearch-project/opensearch-go/v2
// with environment based configuration, a readiness probe and index
// bootstrapping.
//
// The API uses it as the optional full-text search backend of the template
// catalog (SEARCH_BACKEND=opensearch). New performs an initial health check
// so a misconfigured cluster stops the process at startup. EnsureIndex is
// idempotent and called by both the API and the seed command.
//
//	client, err := opensearch.New(ctx, cfg)
//	if err != nil {
//	    // errors.Is(err, opensearch.ErrHealthcheckFailed)
//	}
//	err = opensearch.EnsureIndex(ctx, client, cfg.Index, mapping)
package opensearch
