package content

import (
	"math/rand/v2"
	"net/http"
)

// Accept values of the requests made by the pipeline
const (
	AcceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	AcceptRSS  = "application/rss+xml,application/xml;q=0.9,text/xml;q=0.8,*/*;q=0.5"
	AcceptJSON = "application/json"
)

var languages = []string{"en-US,en;q=0.9", "en-GB,en;q=0.9", "en;q=0.8"}

// AddBrowserHeaders makes req look like a browser request for the accept type. Page requests get
// navigation metadata as well. User-Agent is set by the caller, Accept-Encoding is left to the transport.
func AddBrowserHeaders(req *http.Request, accept string) {
	h := req.Header
	h.Set("Accept", accept)
	h.Set("Accept-Language", languages[rand.IntN(len(languages))]) //nolint:gosec // header variation only
	h.Set("Cache-Control", "no-cache")
	if accept != AcceptHTML {
		return
	}
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "cross-site")
	h.Set("Sec-Fetch-User", "?1")
}
