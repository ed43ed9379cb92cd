package tools

import (
	"context"
)

// ownerIDKey is an unexported context key for zero-allocation type safety.
type ownerIDKey struct{}

// courseIDKey is an unexported context key for the active course scope.
type courseIDKey struct{}

// OwnerIDFromContext retrieves the authenticated user identity from context.
// Returns empty string if not set.
func OwnerIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ownerIDKey{}).(string)
	return id
}

// ContextWithOwnerID stores the authenticated user identity in context.
// The API layer injects it per request; tool handlers overwrite any
// model-supplied user ID with this value for per-user data isolation.
func ContextWithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey{}, ownerID)
}

// CourseIDFromContext retrieves the active course scope from context.
// Returns empty string if the request carried no course context.
func CourseIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(courseIDKey{}).(string)
	return id
}

// ContextWithCourseID stores the active course scope in context. Tool
// handlers use it to fill a missing courseId argument; a course ID the
// model supplied explicitly is kept, since the model may infer the
// course from conversation.
func ContextWithCourseID(ctx context.Context, courseID string) context.Context {
	return context.WithValue(ctx, courseIDKey{}, courseID)
}
