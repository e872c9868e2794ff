/*
 * errors.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

package dyn

import "fmt"

// CError is the concrete error type of the dyn package. It fullfills the
// Error interface.
type CError struct {
	msg  string
	deco []string
}

func (err CError) Error() string { return err.msg }

// Decorate adds the dec string to the decoration slice of the error and
// returns the resulting slice.
func (err CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// InvalidTimestepError is returned when an observation is requested at a
// timestep earlier than the capture timestep of its origin. It is never
// retried internally; the caller decides whether to skip or abort.
type InvalidTimestepError struct {
	Timestep int //the offending timestep
	Origin   int //the capture timestep of the origin
	deco     []string
}

func (err *InvalidTimestepError) Error() string {
	return fmt.Sprintf("dyn: timestep %d precedes origin capture timestep %d", err.Timestep, err.Origin)
}

func (err *InvalidTimestepError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// ClosedAccumulatorError is returned by Record after Close has been called
// on an Accumulator. It flags a programming error in the caller.
type ClosedAccumulatorError struct {
	deco []string
}

func (err *ClosedAccumulatorError) Error() string {
	return "dyn: Record called on a closed Accumulator"
}

func (err *ClosedAccumulatorError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//errDecorate asserts that the given error implements Error and decorates it
//with the caller's name before returning it. It will panic if used with an
//error that does not implement Error.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}
