// Package invidious implements the catalog backend on top of Invidious
// instances.
//
// Instances come from configuration or, when none are configured, from the
// public directory at DirectoryURL. Search probes instances concurrently and
// keeps the first one that returns results; paging then stays on that
// instance:
//
//	client := http.NewClient(http.Options{RequestsPerSecond: 5})
//	backend := invidious.NewBackend(client, invidious.Config{Discover: true, ParallelProbes: 3}, logger)
//	handle, entries, err := backend.Search(ctx, "lofi")
//	next, err := handle.QueryPage(ctx, "lofi", 2)
package invidious
