// Package services implements HTTP gateways for the Softcover backend APIs.
//
// # Gateways
//
// Each backend area gets its own service struct sharing one request helper:
//   - [AuthService] : login, logout, registration, and current-user lookup
//   - [CatalogService] : the shared book catalog with search and progress updates
//   - [ListService] : the per-user reading list
//   - [InsightsService] : activities, goals, and aggregate stats
//   - [APIService] : raw requests against any endpoint for debugging
//
// # Error Handling
//
// All gateways share a single error contract via doRequest:
//   - [shared.ErrNetwork] : the request never produced an HTTP response
//   - [shared.ErrUnauthorized] : any 401, with a fixed message regardless of body
//   - [shared.StatusError] : other non-2xx statuses, carrying the backend's
//     message field when one decodes, otherwise "API error: <status>"
//   - [shared.ErrMalformedResponse] : a 2xx body that does not decode
//
// # Normalization
//
// The catalog backend is inconsistent about field shapes. Authors arrive as
// strings or {firstName, lastName} objects, publishers as strings or {name}
// objects, categories as labels or numeric codes, covers under coverUrl or
// image, descriptions under description or blurp. [CatalogService] folds all
// of these into [models.Book] so nothing downstream sees wire shapes.
//
// # Authentication Modes
//
// Gateways authenticate one of two ways depending on [shared.AuthConfig]:
// a persistent cookie jar ([FileJar]) shared across processes, or a bearer
// token injected through an oauth2 static token source.
package services
