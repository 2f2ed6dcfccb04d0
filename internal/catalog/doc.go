// Package catalog keeps the search and pagination state of a remote video
// catalog.
//
// A Backend picks a catalog instance for a keyword and returns it as a
// Handle together with the first page of results. Session records the
// keyword, the current page and the result set, and re-queries the same
// Handle when paging:
//
//	session := catalog.NewSession(backend, catalog.WithPageRollback())
//	if err := session.Search(ctx, "lofi"); err != nil {
//	    return err
//	}
//	entry, err := session.GetByIndex(0)
//
// # Page navigation failures
//
// NextPage and PrevPage move the page number before querying. When the query
// fails the page stays moved and the result set keeps the previous page,
// unless the session was built with WithPageRollback, in which case the page
// number is restored.
package catalog
