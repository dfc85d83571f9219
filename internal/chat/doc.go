// Package chat intercepts player chat lines addressed to the bot.
//
// A line starting with the prefix (default "!ai") is consumed. "help" and
// "reset" are handled here; anything else is length-checked, rate-limited
// per session and queued on the network worker as an inference query whose
// reply goes to the session's dispatcher.
package chat
