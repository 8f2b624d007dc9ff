// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import "strconv"

// UnknownSignalError is returned by Poke and Peek when the given signal name
// is not present in the netlist's port maps.
//
type UnknownSignalError string

func (e UnknownSignalError) Error() string {
	return "unknown signal " + strconv.Quote(string(e))
}

// LaneOutOfRangeError is returned by the per-lane Poke and Peek variants when
// the requested lane index is not below the evaluator's configured lane count.
//
type LaneOutOfRangeError struct {
	Lane  int
	Lanes int
}

func (e *LaneOutOfRangeError) Error() string {
	return "lane " + strconv.Itoa(e.Lane) + " out of range (" + strconv.Itoa(e.Lanes) + " lanes)"
}

// CombinationalCycleError is returned when a netlist contains a cycle through
// gates that is not broken by a flip-flop. Net names an offending net on the
// cycle.
//
type CombinationalCycleError struct {
	Net NetID
}

func (e *CombinationalCycleError) Error() string {
	return "combinational cycle through net " + strconv.Itoa(int(e.Net))
}

// BackendUnavailableError is returned by New when the requested backend is
// not available on the host and fallback to the interpreter has been disabled
// with NoFallback.
//
type BackendUnavailableError struct {
	Backend Backend
	Reason  string
}

func (e *BackendUnavailableError) Error() string {
	return e.Backend.String() + " backend unavailable: " + e.Reason
}
