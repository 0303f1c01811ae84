// Package interviews owns the persistence side of the interview lifecycle:
// turning capture bundles into stored interviews, advancing interview status
// as external transcription and analysis jobs report back, assembling detail
// views, and coordinating cascade deletes with artifact file cleanup.
package interviews
