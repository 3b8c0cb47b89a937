// Package youtube is a read-only client for the video platform's Data API.
//
// Three calls are supported: SearchVideos, FetchComments and FetchRating.
// They share one request helper that builds the versioned URL, attaches the
// API key, maps non-2xx responses to an API error carrying the response body,
// and decodes the JSON "items" envelope.
//
// Cancellation is a normal outcome, not a fault: when the caller's context is
// canceled the call returns an empty result and a nil error. A context whose
// deadline expired is reported as a network timeout.
package youtube
