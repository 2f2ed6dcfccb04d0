package invidious

import (
	"context"
	"fmt"
	"strings"

	thttp "github.com/handiism/tubeaudio/internal/http"
	"github.com/handiism/tubeaudio/internal/invidious/dto"
)

// DirectoryURL lists public instances with their API status.
const DirectoryURL = "https://api.invidious.io/instances.json"

// Discover fetches the instance directory at url and returns the base URLs
// of instances serving the API over https, in directory order.
func Discover(ctx context.Context, client *thttp.Client, url string) ([]string, error) {
	var rows []dto.Instance
	if err := client.GetJSON(ctx, url, &rows); err != nil {
		return nil, fmt.Errorf("discover instances: %w", err)
	}

	var domains []string
	for i := range rows {
		if rows[i].UsableAPI() {
			domains = append(domains, NormalizeDomain(rows[i].Details.URI))
		}
	}
	return domains, nil
}

// NormalizeDomain turns a configured instance into a base URL: https is
// assumed when no scheme is given and trailing slashes are dropped.
//
//	NormalizeDomain("yewtu.be")          // "https://yewtu.be"
//	NormalizeDomain("http://localhost/") // "http://localhost"
func NormalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	if !strings.Contains(domain, "://") {
		domain = "https://" + domain
	}
	return strings.TrimRight(domain, "/")
}
