// Package http exposes the asset store and the content planner over HTTP.
//
// The router exposes the following endpoints:
//   - PUT /assets/{id}: stores the raw request body. The MIME type comes from
//     Content-Type and the file name from X-Asset-Name. GET /assets/{id} serves
//     the bytes back with the same headers and an ETag carrying the digest.
//   - PUT /state/{key}, GET /state/{key}: stores and returns arbitrary JSON.
//   - POST /session, GET /session, DELETE /session: the last signed-in session,
//     exchanged as {"email","companyId","updated"}.
//   - POST /admin/reset: wipes every tier of the store.
//   - GET /calendar/{year}/{month}: the 42-day month view with ISO week numbers.
//   - GET /calendar/events, DELETE /calendar/events/{id}: calendar events.
//   - POST /calendar/plan: schedules drafts. Body: {"drafts","weekdays"} where
//     weekdays use 0 for Sunday through 6 for Saturday.
//   - GET /healthz: liveness plus the store mode; "volatile" means writes are
//     not persisted.
//   - GET /metrics: Prometheus metrics.
//
// Request/response DTOs live alongside their respective handlers.
package http
