// Package tools registers the assistant's Genkit tools.
//
// Five tools are exposed to the conversational model: getStudyGuideAnswer
// (grounded answers over indexed course materials), recommendLearningResources,
// generateCareerInsights, listEmails, and readEmail.
//
// Identity is never trusted from model arguments. The API layer stores the
// authenticated user ID (and course ID when known) in the request context via
// ContextWithOwnerID / ContextWithCourseID, and every handler that takes a
// user ID overwrites the model-supplied value from context before executing.
//
// Business failures are returned inside Result with StatusError so the model
// can explain the problem to the student; a Go error aborts the whole turn
// and is reserved for context cancellation.
package tools
