// Package rag implements the retrieval-augmented generation pipeline:
// ingesting study documents into the vector index, retrieving the chunks
// most similar to a question, and synthesizing an answer grounded in those
// chunks.
//
// The three entry points mirror the lifecycle of a study document:
//
//   - Indexer.Index: chunk, embed, and store an uploaded document
//   - Retriever.Retrieve: find the top chunks for a question in scope
//   - Answerer.Answer: generate an answer constrained to retrieved chunks
//
// All operations are scoped by (userID, courseID); nothing in this package
// ever reads across scopes.
package rag
