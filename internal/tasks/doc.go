// package tasks implements the recommendation run against a language model.
//
// The core abstraction is [RecommendationEngine], which sends the genre prompt, carries the reply into
// the conversation and sends the recommendation prompt. Runs emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks
