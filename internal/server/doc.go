// Package server hosts the HTTP boundary of the fieldnote daemon: entity
// CRUD, multipart interview submission, artifact playback, and the runtime
// status endpoint. The server enforces single-instance execution with a file
// lock and watches udev for capture-device availability.
package server
