// Package dispatch routes decoded inference payloads into the game.
//
// A Dispatcher is bound to one player session. Chat and Error payloads are
// shown verbatim. A Command is validated and submitted at once. A Build is
// generated in front of the player and replayed at build pace with a
// "Build complete!" line. A MacroSequence is validated as a batch (lenient
// unless Strict is set) and replayed at command pace with progress lines.
//
// Describe maps every failure kind onto the single line the player sees.
package dispatch
