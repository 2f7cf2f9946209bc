// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key header or api_key query parameter).
//   - rayid: assigns every request a RayID, stored in the context locals and
//     echoed in the X-Ray-ID response header so logs can be correlated.
//
// Both are registered globally by the serve command; the Swagger UI is
// mounted before auth and stays public.
package middleware
