// Package http provides the HTTP client used to talk to catalog instances.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - Request rate limiting shared by every caller
//   - JSON decoding
//
// # Basic Usage
//
//	client := http.NewClient(http.Options{RequestsPerSecond: 5})
//
//	var instances [][]json.RawMessage
//	err := client.GetJSON(ctx, "https://api.invidious.io/instances.json", &instances)
//
// Non-200 responses are reported as *StatusError:
//
//	var se *http.StatusError
//	if errors.As(err, &se) && se.StatusCode == 429 {
//	    // instance is throttling us
//	}
package http
