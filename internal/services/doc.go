// Package services defines the [Matcher] interface for catalog
// providers and implements it for the Spotify Web API.
//
// # Matcher Interface
//
// Providers resolve one normalized ISRC per call, letting the batch
// pipeline stay provider-agnostic.
//
// # Spotify Implementation
//
// [SpotifyService] searches the catalog with the isrc: query filter
// and maps the first hit to a models.Track.
//
// Authentication uses the OAuth2 client credentials grant via
// [TokenSession], which caches the access token and refreshes it when
// it comes within sixty seconds of expiry. A 401 from the API
// invalidates the session and the request is retried once with a
// fresh token; a second 401 is a fatal authentication error.
//
// # Rate Limiting
//
// 429 responses are retried up to the configured bound, waiting for
// the provider's Retry-After hint when present and the configured
// backoff otherwise. Server errors and transport failures share the
// same bound.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAuthFailed] : credentials rejected by the token endpoint
//   - [shared.ErrTrackNotFound] : catalog has no entry for the ISRC
//   - [shared.ErrRateLimited] : retry bound exhausted on 429
//   - [shared.ErrTimeout] : retry bound exhausted on timeouts
//   - [shared.ErrAPIRequest] : any other failed request
package services
