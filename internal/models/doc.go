// Package models defines the domain types shared by the recommendation engine, the parser and every UI surface.
//
//   - [Titles] : the ordered, comma separated list of titles the user likes
//   - [Recommendation] : one parsed suggestion (type, title, synopsis, likelihood)
//   - [Kind] and [Likelihood] : the fixed enumerations the model is asked to use
//   - [Result] : the genre and raw recommendation text of one successful run
//
// Records are never stored; they are rebuilt from [Result.Raw] whenever a view renders.
package models
