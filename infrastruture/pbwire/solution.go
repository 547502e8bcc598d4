// Package pbwire encodes solutions in the protocol buffer wire format. The layout matches
//
//	message Cell { sint32 x = 1; sint32 y = 2; }
//	message Solution {
//	  uint64 grid_version = 1;
//	  uint32 size = 2;
//	  repeated Cell roots = 3;
//	  repeated sint32 costs = 4 [packed = true]; // -1 is unreachable
//	  repeated uint32 headings = 5 [packed = true];
//	  repeated Cell path = 6;
//	  bool found = 7;
//	}
package pbwire

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/mazeflood/flood"
	"github.com/beka-birhanu/mazeflood/maze"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldGridVersion protowire.Number = 1
	fieldSize        protowire.Number = 2
	fieldRoots       protowire.Number = 3
	fieldCosts       protowire.Number = 4
	fieldHeadings    protowire.Number = 5
	fieldPath        protowire.Number = 6
	fieldFound       protowire.Number = 7

	fieldCellX protowire.Number = 1
	fieldCellY protowire.Number = 2

	unreachableCost = -1
)

var ErrMalformed = errors.New("pbwire: malformed solution")

// Encoder implements the solution codec used by the cache and the binary API.
type Encoder struct{}

// NewEncoder creates an Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// MarshalSolution encodes s.
func (e *Encoder) MarshalSolution(s *flood.Solution) ([]byte, error) {
	if s == nil || s.Costs == nil || s.Headings == nil {
		return nil, fmt.Errorf("%w: incomplete solution", ErrMalformed)
	}

	var b []byte
	b = protowire.AppendTag(b, fieldGridVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, s.GridVersion)
	b = protowire.AppendTag(b, fieldSize, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(s.Size))

	for _, r := range s.Roots {
		b = appendCell(b, fieldRoots, r)
	}

	var costs []byte
	for _, c := range s.Costs.Values() {
		v := int64(c)
		if c >= flood.Infinity {
			v = unreachableCost
		}
		costs = protowire.AppendVarint(costs, protowire.EncodeZigZag(v))
	}
	b = protowire.AppendTag(b, fieldCosts, protowire.BytesType)
	b = protowire.AppendBytes(b, costs)

	var headings []byte
	for _, d := range s.Headings.Values() {
		headings = protowire.AppendVarint(headings, uint64(d))
	}
	b = protowire.AppendTag(b, fieldHeadings, protowire.BytesType)
	b = protowire.AppendBytes(b, headings)

	for _, p := range s.Path {
		b = appendCell(b, fieldPath, p)
	}

	if s.Found {
		b = protowire.AppendTag(b, fieldFound, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	return b, nil
}

func appendCell(b []byte, num protowire.Number, p maze.CellPosition) []byte {
	var cell []byte
	cell = protowire.AppendTag(cell, fieldCellX, protowire.VarintType)
	cell = protowire.AppendVarint(cell, protowire.EncodeZigZag(int64(p.X)))
	cell = protowire.AppendTag(cell, fieldCellY, protowire.VarintType)
	cell = protowire.AppendVarint(cell, protowire.EncodeZigZag(int64(p.Y)))

	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, cell)
}

// UnmarshalSolution decodes a solution written by MarshalSolution. Unknown fields are skipped.
func (e *Encoder) UnmarshalSolution(b []byte) (*flood.Solution, error) {
	var (
		s        flood.Solution
		costs    []int
		headings []maze.Direction
	)

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireErr(protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldGridVersion && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireErr(protowire.ParseError(n))
			}
			s.GridVersion = v
			b = b[n:]

		case num == fieldSize && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireErr(protowire.ParseError(n))
			}
			if v > maze.MaxSize {
				return nil, fmt.Errorf("%w: size %d", ErrMalformed, v)
			}
			s.Size = int(v)
			b = b[n:]

		case (num == fieldRoots || num == fieldPath) && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireErr(protowire.ParseError(n))
			}
			p, err := consumeCell(raw)
			if err != nil {
				return nil, err
			}
			if num == fieldRoots {
				s.Roots = append(s.Roots, p)
			} else {
				s.Path = append(s.Path, p)
			}
			b = b[n:]

		case num == fieldCosts:
			n, err := consumeRepeated(b, typ, func(v uint64) {
				c := int(protowire.DecodeZigZag(v))
				if c == unreachableCost {
					c = flood.Infinity
				}
				costs = append(costs, c)
			})
			if err != nil {
				return nil, err
			}
			b = b[n:]

		case num == fieldHeadings:
			n, err := consumeRepeated(b, typ, func(v uint64) {
				headings = append(headings, maze.Direction(v))
			})
			if err != nil {
				return nil, err
			}
			b = b[n:]

		case num == fieldFound && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireErr(protowire.ParseError(n))
			}
			s.Found = protowire.DecodeBool(v)
			b = b[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, wireErr(protowire.ParseError(n))
			}
			b = b[n:]
		}
	}

	costField, err := flood.NewCostField(s.Size, s.GridVersion, costs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	headingField, err := flood.NewHeadingField(s.Size, headings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	s.Costs = costField
	s.Headings = headingField
	return &s, nil
}

// consumeRepeated reads a packed or unpacked repeated varint field and returns the bytes consumed.
func consumeRepeated(b []byte, typ protowire.Type, add func(uint64)) (int, error) {
	switch typ {
	case protowire.VarintType:
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return 0, wireErr(protowire.ParseError(n))
		}
		add(v)
		return n, nil
	case protowire.BytesType:
		packed, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, wireErr(protowire.ParseError(n))
		}
		for len(packed) > 0 {
			v, m := protowire.ConsumeVarint(packed)
			if m < 0 {
				return 0, wireErr(protowire.ParseError(m))
			}
			add(v)
			packed = packed[m:]
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: wire type %d for repeated varint", ErrMalformed, typ)
	}
}

func consumeCell(b []byte) (maze.CellPosition, error) {
	var p maze.CellPosition
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return p, wireErr(protowire.ParseError(n))
		}
		b = b[n:]
		if typ != protowire.VarintType || (num != fieldCellX && num != fieldCellY) {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return p, wireErr(protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return p, wireErr(protowire.ParseError(n))
		}
		if num == fieldCellX {
			p.X = int(protowire.DecodeZigZag(v))
		} else {
			p.Y = int(protowire.DecodeZigZag(v))
		}
		b = b[n:]
	}
	return p, nil
}

func wireErr(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformed, err)
}
