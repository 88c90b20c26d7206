// Package httpapi exposes the trainee-facing REST surface: starting a
// challenge, polling its status, and requesting progressive hints. The JSON
// field names match the original trainer UI so existing clients keep working.
package httpapi
