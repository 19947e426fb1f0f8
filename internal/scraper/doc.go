// Package scraper fetches a surf forecast page and parses it into a goquery document.
//
// The scraper performs a single blocking GET with a browser-like User-Agent (the
// forecast site rejects obvious bots) and does no retrying. Pages saved to disk can
// be loaded instead, which is how the forecast fixtures in testdata were captured.
package scraper
