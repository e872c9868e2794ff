/*
 * doc.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

/*Package dyn computes time-dependent dynamical observables from rigid-body
molecular-dynamics trajectories.

Given a stream of simulation snapshots (wrapped positions, periodic image
counts, orientations) arriving at increasing timesteps, the package computes
unwrapped translational displacements and in-plane rotations relative to one
or more reference ("origin") configurations, and appends every computed row
incrementally to an external dataset. The full trajectory is never held in
memory, so arbitrarily long runs can be analysed with a bounded footprint.


	**Capabilities**

    Unwraps periodic-boundary positions into absolute positions using the
	per-particle image counts accumulated by the simulation engine.

    Computes per-body Euclidean displacement magnitudes relative to an
	origin configuration, for all bodies or for rigid-body centers only.

    Computes per-body in-plane rotation angles for 2D rigid bodies from
	quaternion orientations, wrapped into (-pi, pi].

    Tracks any number of simultaneous time origins, creating each origin
	lazily the first time its index is recorded.

    Streams observations into an append-only dataset (see the dset and
	dset/sqlite packages) so that datasets larger than memory can be
	produced and later queried.

Snapshots are obtained from a trajectory source such as the traj/lammpstrj
package, and the steps at which origins are created and measurements taken
are normally produced by the schedule package. Neither is required: any
caller that can fill a Snapshot and decide on (origin index, timestep) pairs
can drive an Accumulator directly.

The simulation engine itself (integrators, thermostats, potentials) is an
external collaborator and entirely out of scope for this library.
*/
package dyn
