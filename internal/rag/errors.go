package rag

import "errors"

// ErrGenerationFailed indicates the language model returned no usable
// output for a grounded answer. Callers surface this instead of passing an
// empty answer through as if it were real.
var ErrGenerationFailed = errors.New("generation failed")

// NoMaterialsMessage is returned verbatim when retrieval finds nothing in
// scope. The model is never invoked in that case: with no context to ground
// on, any generated answer would come from the model's own knowledge, which
// is exactly what a study-material answer must not do.
const NoMaterialsMessage = "I couldn't find any study materials related to your question for this course. " +
	"Please make sure you've uploaded documents for this course ID."
