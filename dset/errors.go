/*
 * errors.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

package dset

import (
	"fmt"

	dyn "github.com/malramsay64/godyn"
)

//errDecorate is a helper function that asserts that the error implements
//dyn.Error and decorates the error with the caller's name before returning
//it. If used with a non-dyn.Error error, it will cause a panic.
func errDecorate(err error, caller string) error {
	err2 := err.(dyn.Error)
	err2.Decorate(caller)
	return err2
}

// Error is the general structure for dataset errors. It fullfills dyn.Error
// and dyn.TrajError.
type Error struct {
	message  string
	filename string //the dataset file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("dataset file %s error: %s", err.filename, err.message)
}

// Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// FileName returns the file to which the failing dataset was associated
func (err Error) FileName() string { return err.filename }

// Format returns the format of the file (always "dset") associated to the error
func (err Error) Format() string { return "dset" }

// Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	SinkUnIniRead  = "Dataset object uninitialized to read"
	SinkUnIniWrite = "Dataset object uninitialized to write"
	NilObservation = "Given nil observation"
)

//lastBlockError implements dyn.LastFrameError
type lastBlockError struct {
	deco     []string
	fileName string
}

//lastBlockError does nothing
func (E *lastBlockError) NormalLastFrameTermination() {}

func (E *lastBlockError) FileName() string { return E.fileName }

func (E *lastBlockError) Error() string { return "EOF" }

func (E *lastBlockError) Critical() bool { return false }

func (E *lastBlockError) Format() string { return "dset" }

func (E *lastBlockError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newLastBlockError(filename string, caller string) *lastBlockError {
	e := new(lastBlockError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}
