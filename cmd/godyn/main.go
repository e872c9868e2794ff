/*
 * main.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

//The godyn command computes the translational and rotational dynamics of
//every molecule in a trajectory, streaming the results into an append-only
//dataset.
//
//It takes a single argument, a gcfg configuration file:
//
//	[Motion]
//	# LAMMPS dump file to analyse (.gz and .zst are read transparently).
//	Trajectory = prod.lammpstrj.gz
//	# Output dataset. A .db suffix selects the sqlite store; anything
//	# else the compressed flat table format of the dset package.
//	Output = dynamics.ds
//	# Last timestep of the run.
//	TotalSteps = 1000000
//	# Track rigid-body rotations (needs orientation columns in the dump).
//	Rotation = true
//	# Track only the rigid-body centers.
//	RigidOnly = true
//	# Sampling density: points per decade, spacing between time origins,
//	# and the maximum number of origins.
//	NumLinear = 100
//	GenSteps = 20000
//	MaxGen = 1000
package main

import (
	"log"
	"os"
	"strings"

	dyn "github.com/malramsay64/godyn"
	"github.com/malramsay64/godyn/dset"
	"github.com/malramsay64/godyn/dset/sqlite"
	"github.com/malramsay64/godyn/schedule"
	"github.com/malramsay64/godyn/traj/lammpstrj"
	"gopkg.in/gcfg.v1"
)

type Config struct {
	Motion struct {
		Trajectory string
		Output     string
		TotalSteps int
		NumLinear  int
		GenSteps   int
		MaxGen     int
		Rotation   bool
		RigidOnly  bool
	}
}

func main() {
	if len(os.Args) != 2 {
		log.Fatal("The path of the configuration file must be specified in the arguments")
	}
	var cfg Config
	cfg.Motion.NumLinear = 100
	cfg.Motion.GenSteps = 20000
	cfg.Motion.MaxGen = 1000
	if err := gcfg.ReadFileInto(&cfg, os.Args[1]); err != nil {
		log.Fatal(err)
	}
	m := cfg.Motion
	if m.Trajectory == "" || m.Output == "" || m.TotalSteps <= 0 {
		log.Fatal("The Trajectory, Output and TotalSteps options are required")
	}

	log.Printf("Reading trajectory `%s`", m.Trajectory)
	traj, err := lammpstrj.New(m.Trajectory)
	if err != nil {
		log.Fatal(err)
	}
	defer traj.Close()

	tc := dyn.TrackConfig{Rotation: m.Rotation, RigidOnly: m.RigidOnly}

	//the dataset needs the tracked body count, so the first frame comes
	//before the sink
	s := new(dyn.Snapshot)
	if err := traj.Next(s); err != nil {
		log.Fatal(err)
	}
	nbodies, err := tc.Bodies(s)
	if err != nil {
		log.Fatal(err)
	}

	var sink dyn.Sink
	if strings.HasSuffix(m.Output, ".db") {
		store, err := sqlite.Open(m.Output)
		if err != nil {
			log.Fatal(err)
		}
		if err := store.SetMetadata("trajectory", m.Trajectory); err != nil {
			log.Fatal(err)
		}
		sink = store
	} else {
		w, err := dset.NewWriter(m.Output, nbodies, m.Rotation, map[string]string{"trajectory": m.Trajectory})
		if err != nil {
			log.Fatal(err)
		}
		sink = w
	}

	acc := dyn.NewAccumulator(sink, tc)
	sched := schedule.NewSeries(m.TotalSteps, m.NumLinear, m.GenSteps, m.MaxGen)

	rows, frames := 0, 0
	done := false
	for {
		//decisions for steps the dump does not contain are skipped
		for !done && sched.Step() < s.Timestep {
			done = !sched.Advance()
		}
		for !done && sched.Step() == s.Timestep {
			if err := acc.Record(s, sched.Index(), sched.Step()); err != nil {
				log.Fatal(err)
			}
			rows++
			done = !sched.Advance()
		}
		frames++
		if done {
			break
		}
		if err := traj.Next(s); err != nil {
			if _, ok := err.(dyn.LastFrameError); ok {
				break
			}
			log.Fatal(err)
		}
	}
	if err := acc.Close(); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %d observations for %d origins from %d frames into `%s`", rows, acc.Origins(), frames, m.Output)
}
