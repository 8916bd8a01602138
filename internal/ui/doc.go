// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI follows the same three phases as the web page (see [session.State]):
//  1. Idle : a textarea for comma-separated titles
//  2. Loading : a spinner while the engine runs both model calls, with progress from the engine
//  3. Shown : the genre greeting and a browsable list of recommendation cards
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the [tasks.RecommendationEngine], providing non-blocking status reporting.
//
// Keys: enter or ctrl+s submits, n asks for new suggestions, q or ctrl+c quits, with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
