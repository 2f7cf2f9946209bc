// Package realms exposes the sync engine over HTTP.
//
// Passes triggered here never ask questions: every undecided item takes the
// proposed direction, as if all prompts were answered with enter.
//
// # HTTP Endpoints
//
//   - GET /realms : lists the configured realms.
//   - GET /realms/:realm/plan : returns the plan of a realm without applying it.
//   - POST /sync : synchronizes the realms named in the body, or all realms.
//
// Identical concurrent POST /sync requests share a single pass through
// singleflight; different requests are run one after the other.
package realms
