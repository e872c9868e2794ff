/*
 * interfaces.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

package dyn

// Source is an interface for anything producing Snapshots in non-decreasing
// timestep order, typically a trajectory file reader.
type Source interface {

	//Is the source ready to be read?
	Readable() bool

	//Next fills s with the next frame of the trajectory, or discards the
	//frame if s is nil.
	Next(s *Snapshot) error

	//Returns the number of bodies per frame
	Len() int
}

// Sink is the destination for computed Observations. Implementations append
// rows to durable, append-only storage; once appended a row is never
// rewritten. The dset and dset/sqlite packages provide the standard
// implementations.
type Sink interface {

	//Append adds one Observation to the dataset.
	Append(o *Observation) error

	//Flush guarantees that all previously appended Observations have
	//reached durable storage before returning.
	Flush() error

	//Close flushes and releases the underlying storage. The Sink can not
	//be used after this call.
	Close() error
}

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Allows adding information when the error is passed up. Each call also returns the current "decoration" slice of strings. If passed an empty string, it just returns the current value, without adding the empty string to the slice.
}

// TrajError is the interface for errors in trajectory and dataset files.
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

// LastFrameError has a useless function to distinguish the harmless errors (i.e. last frame) so they can be
// filtered in a typeswitch that looks for this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just to separate this interface from other TrajError's
}
