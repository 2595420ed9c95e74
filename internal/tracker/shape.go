package tracker

import (
	"fmt"

	"github.com/lineal-io/lineal/internal/prov"
)

// CallShape is the tagged variant describing an intercepted output call.
//
// Two shapes exist. Pattern-match with a type switch; the compiler keeps
// the cases exhaustive, which is the point of modeling shapes as a closed
// sum instead of scanning positions at every use site.
type CallShape interface {
	// Destination returns the raw destination argument.
	Destination() string

	shape()
}

// DirectWrite is the (data, destination, options...) call shape.
type DirectWrite struct {
	Data    any
	Dest    string
	Options []any
}

// IndexedWrite is the (data, table, destination, options...) call shape,
// where the auxiliary table rides between the data and the destination.
type IndexedWrite struct {
	Data    any
	Table   any
	Dest    string
	Options []any
}

func (w DirectWrite) Destination() string  { return w.Dest }
func (w IndexedWrite) Destination() string { return w.Dest }

func (DirectWrite) shape()  {}
func (IndexedWrite) shape() {}

// ParseArgs classifies a heterogeneous argument list into a CallShape.
//
// The rule, reproduced exactly from the observed capture behavior: scan
// left to right for the first string-typed argument. A string at position
// 2 means (data, destination, ...); a string at position 3 means
// (data, table, destination, ...). Any other position, or no string at
// all, is an UNSUPPORTED_CALL_SHAPE error.
//
// Trailing arguments after the destination are named options; they are
// carried through untouched and never interpreted.
func ParseArgs(args []any) (CallShape, error) {
	for i, arg := range args {
		s, ok := arg.(string)
		if !ok {
			continue
		}

		switch i {
		case 1:
			return DirectWrite{Data: args[0], Dest: s, Options: args[2:]}, nil
		case 2:
			return IndexedWrite{Data: args[0], Table: args[1], Dest: s, Options: args[3:]}, nil
		default:
			return nil, prov.NewTrackError(prov.ErrCodeUnsupportedShape,
				fmt.Sprintf("string argument at unsupported position %d", i+1))
		}
	}

	return nil, prov.NewTrackError(prov.ErrCodeUnsupportedShape,
		fmt.Sprintf("no string destination among %d arguments", len(args)))
}
