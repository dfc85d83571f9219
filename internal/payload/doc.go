// Package payload defines the responses the inference channel can send and
// decodes them once, at the boundary.
//
// A response is a JSON object discriminated by "type":
//
//	{"type":"chat","text":"Hello!"}
//	{"type":"command","command":"time set day"}
//	{"type":"build","structure":"house","width":5,"height":4,"depth":5,"material":"stone"}
//	{"type":"worldedit","description":"Stone floor","commands":["//pos1","//pos2","//set stone"]}
//	{"type":"error","text":"Please wait before sending another message."}
//
// Decode returns one of the concrete variants, so callers switch on the Go
// type instead of probing fields.
package payload
