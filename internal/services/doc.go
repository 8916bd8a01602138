// Package services defines the [ChatModel] interface for generative language APIs and implements it
// for Gemini and OpenAI-compatible chat completion endpoints.
//
// # Conversation
//
// A conversation is a plain []Turn owned by the caller. Each call to [ChatModel.Generate] sends the
// whole history, so carrying context from one prompt to the next is a matter of appending the previous
// reply and the next prompt before calling again:
//
//	history := []services.Turn{services.UserTurn(genrePrompt)}
//	genre, err := model.Generate(ctx, history)
//	history = append(history, services.ModelTurn(genre), services.UserTurn(recPrompt))
//	recs, err := model.Generate(ctx, history)
//
// # Gemini
//
// [GeminiModel] uses google.golang.org/genai with the Gemini API backend. Temperature, candidate count
// and the block threshold for the hate, harassment, sexual and dangerous content categories come from
// [Settings].
//
// # OpenAI
//
// [OpenAIModel] targets any endpoint speaking the chat completion protocol. Model turns are sent as
// assistant messages.
//
// # Error Handling
//
// Remote failures are returned as [*APIError], which matches with errors.Is:
//   - [shared.ErrRateLimited] : HTTP 429 / RESOURCE_EXHAUSTED
//   - [shared.ErrAPIRequest] : anything else, including an empty reply
//
// No call is retried.
package services
