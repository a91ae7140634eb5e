// Package upload implements the resumable chunked-upload engine of the
// GophDrive client.
//
// A caller enqueues sources into a Queue. Each enqueued file becomes a Task
// with a salted identifier (Resolver), a chunk layout (PlanChunks) and the
// set of chunks the backend already holds (Probe). A Runner then drives the
// tasks one at a time, in insertion order, through a Coordinator which
// transfers the missing chunks sequentially and asks the backend to merge
// them. Pause and cancel requests are recorded in a queue-owned Control and
// take effect before the next chunk is sent.
//
// Outcomes meant for the user are reported once, through the Listener. The
// Logger only receives debug detail and journal problems.
package upload
