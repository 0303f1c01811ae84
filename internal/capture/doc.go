// Package capture implements the interview recording session.
//
// A Session owns three sub-components by exclusive ownership: a Clock that
// tracks elapsed recording time across pause/resume, an Engine that pulls
// ordered audio chunks from an input Device, and an AnnotationLog holding
// timestamped notes. The Session is an explicit state machine (empty ->
// recording -> captured -> saved) whose transitions either fully succeed or
// roll the affected components back to a consistent pair of states.
//
// On save the Session assembles an immutable Bundle and hands it to a
// Persister; a failed save keeps the bundle so the caller can retry without
// re-recording. Nothing here touches storage directly.
package capture
