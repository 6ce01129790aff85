// Package resource provides a generic REST client bound to one base URL and
// one resource path.
//
// A Client builds URLs as base/resourcePath/segments, merges its default
// headers with per-call headers (per-call wins), encodes query parameters
// from arbitrary values and decodes JSON responses into the caller's value.
//
// # Usage
//
//	users, err := resource.NewClient("https://api.example.com", "users",
//		map[string]string{"X-Common": "value"}, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	var list []User
//	err = users.List(ctx, resource.RequestOptions{
//		Params: map[string]any{"page": 1, "includeInactive": false},
//	}, &list)
//
// # Error Handling
//
// Non-2xx responses and transport failures are returned as *APIError:
//
//	var apiErr *resource.APIError
//	if errors.As(err, &apiErr) && apiErr.IsNotFound() {
//		// Handle missing resource
//	}
package resource
