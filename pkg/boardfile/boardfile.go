// Package boardfile reads and writes boards as YAML.
//
// Lengths and coordinates are integer nanometers. Net points and vias carry
// an id that lines refer to; pads are referred to as "pad:<name>". Ids that
// are UUIDs become the identity of the element, so a saved board loads back
// with the same UUIDs.
//
//	name: demo
//	nets: [GND]
//	pads:
//	  - {name: U1.1, net: GND, position: [0, 0], size: [1000000, 1000000], layer: top}
//	segments:
//	  - net: GND
//	    points:
//	      - {id: p1, position: [5000000, 0], layer: top}
//	    lines:
//	      - {from: pad:U1.1, to: p1, layer: top, width: 200000}
package boardfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"netsimplify/pkg/board"
	"netsimplify/pkg/geometry"
)

const padPrefix = "pad:"

var validate = validator.New()

type File struct {
	Name     string        `yaml:"name"`
	Nets     []string      `yaml:"nets,flow" validate:"dive,required"`
	Pads     []PadSpec     `yaml:"pads,omitempty" validate:"dive"`
	Segments []SegmentSpec `yaml:"segments,omitempty" validate:"dive"`
}

// Coord is an x, y pair in nanometers.
type Coord [2]int64

func (c Coord) Point() geometry.Point {
	return geometry.Point{X: geometry.Length(c[0]), Y: geometry.Length(c[1])}
}

func coordOf(p geometry.Point) Coord {
	return Coord{int64(p.X), int64(p.Y)}
}

type PadSpec struct {
	Name     string `yaml:"name" validate:"required"`
	UUID     string `yaml:"uuid,omitempty" validate:"omitempty,uuid"`
	Net      string `yaml:"net,omitempty"`
	Position Coord  `yaml:"position,flow"`
	Size     Coord  `yaml:"size,flow" validate:"dive,gt=0"`
	Layer    string `yaml:"layer,omitempty"`
}

type SegmentSpec struct {
	UUID   string      `yaml:"uuid,omitempty" validate:"omitempty,uuid"`
	Net    string      `yaml:"net" validate:"required"`
	Vias   []ViaSpec   `yaml:"vias,omitempty" validate:"dive"`
	Points []PointSpec `yaml:"points,omitempty" validate:"dive"`
	Lines  []LineSpec  `yaml:"lines,omitempty" validate:"dive"`
}

type ViaSpec struct {
	ID       string `yaml:"id" validate:"required"`
	Position Coord  `yaml:"position,flow"`
	Size     int64  `yaml:"size" validate:"gt=0"`
}

type PointSpec struct {
	ID       string `yaml:"id" validate:"required"`
	Position Coord  `yaml:"position,flow"`
	Layer    string `yaml:"layer" validate:"required"`
}

type LineSpec struct {
	UUID  string `yaml:"uuid,omitempty" validate:"omitempty,uuid"`
	From  string `yaml:"from" validate:"required"`
	To    string `yaml:"to" validate:"required"`
	Layer string `yaml:"layer" validate:"required"`
	Width int64  `yaml:"width" validate:"gt=0"`
}

func (f *File) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]error, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Errorf("board file %s: failed %q", e.Namespace(), e.Tag()))
	}
	return errors.Join(msgs...)
}

// Parse decodes and validates a board file without building the board.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse board file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func Load(r io.Reader) (*board.Board, error) {
	f, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return f.Build()
}

func LoadFile(path string) (*board.Board, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	b, err := Load(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// identity returns the UUID spelled by id, or a fresh one.
func identity(id string) uuid.UUID {
	if u, err := uuid.Parse(id); err == nil {
		return u
	}
	return uuid.New()
}

// Build creates the board described by f. Every segment is added in one
// step, so a segment that is not cohesive fails the whole load.
func (f *File) Build() (*board.Board, error) {
	b := board.New(f.Name)
	nets := map[string]*board.NetSignal{}
	for _, name := range f.Nets {
		if nets[name] != nil {
			return nil, fmt.Errorf("net %q: defined twice", name)
		}
		nets[name] = b.AddNetSignal(name)
	}
	netByName := func(name string) (*board.NetSignal, error) {
		if name == "" {
			return nil, nil
		}
		if ns := nets[name]; ns != nil {
			return ns, nil
		}
		return nil, fmt.Errorf("unknown net %q", name)
	}

	pads := map[string]board.PadID{}
	for i, spec := range f.Pads {
		if _, dup := pads[spec.Name]; dup {
			return nil, fmt.Errorf("pad %q: defined twice", spec.Name)
		}
		ns, err := netByName(spec.Net)
		if err != nil {
			return nil, fmt.Errorf("pad %d: %w", i, err)
		}
		pads[spec.Name] = b.AddPad(board.Pad{
			UUID:     identity(spec.UUID),
			Name:     spec.Name,
			Position: spec.Position.Point(),
			Width:    geometry.Length(spec.Size[0]),
			Height:   geometry.Length(spec.Size[1]),
			Layer:    board.Layer(spec.Layer),
			Net:      ns,
		})
	}

	for i, spec := range f.Segments {
		ns, err := netByName(spec.Net)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		seg := b.NewSegmentWithUUID(identity(spec.UUID), ns)
		if err := buildSegment(seg, spec, pads); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return b, nil
}

func buildSegment(seg *board.Segment, spec SegmentSpec, pads map[string]board.PadID) error {
	add := board.NewAddElements(seg)
	anchors := map[string]board.AnchorID{}
	define := func(id string, a board.AnchorID) error {
		if _, dup := anchors[id]; dup || strings.HasPrefix(id, padPrefix) {
			return fmt.Errorf("anchor id %q: defined twice or reserved", id)
		}
		anchors[id] = a
		return nil
	}
	for _, v := range spec.Vias {
		id := add.AddViaWithUUID(identity(v.ID), v.Position.Point(), geometry.Length(v.Size))
		if err := define(v.ID, board.ViaAnchor(id)); err != nil {
			return err
		}
	}
	for _, p := range spec.Points {
		id := add.AddNetPointWithUUID(identity(p.ID), p.Position.Point(), board.Layer(p.Layer))
		if err := define(p.ID, board.NetPointAnchor(id)); err != nil {
			return err
		}
	}

	resolve := func(ref string) (board.AnchorID, error) {
		if name, ok := strings.CutPrefix(ref, padPrefix); ok {
			if pad, ok := pads[name]; ok {
				return board.PadAnchor(pad), nil
			}
			return board.AnchorID{}, fmt.Errorf("unknown pad %q", name)
		}
		if a, ok := anchors[ref]; ok {
			return a, nil
		}
		return board.AnchorID{}, fmt.Errorf("unknown anchor %q", ref)
	}
	for i, l := range spec.Lines {
		from, err := resolve(l.From)
		if err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		to, err := resolve(l.To)
		if err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		add.AddNetLineWithUUID(identity(l.UUID), from, to, board.Layer(l.Layer), geometry.Length(l.Width))
	}
	return add.Do()
}

// ErrNoNetSignal is returned when saving a segment without a net signal,
// which a board file cannot describe.
var ErrNoNetSignal = errors.New("segment has no net signal")

// FromBoard describes b. Net points and vias are identified by their UUIDs.
func FromBoard(b *board.Board) (*File, error) {
	f := &File{Name: b.Name()}
	for _, ns := range b.NetSignals() {
		f.Nets = append(f.Nets, ns.Name)
	}
	for _, id := range b.Pads() {
		pad := b.Pad(id)
		spec := PadSpec{
			Name:     pad.Name,
			UUID:     pad.UUID.String(),
			Position: coordOf(pad.Position),
			Size:     Coord{int64(pad.Width), int64(pad.Height)},
			Layer:    string(pad.Layer),
		}
		if pad.Net != nil {
			spec.Net = pad.Net.Name
		}
		f.Pads = append(f.Pads, spec)
	}
	for _, seg := range b.Segments() {
		ns := seg.NetSignal()
		if ns == nil {
			return nil, fmt.Errorf("segment %s: %w", seg.UUID(), ErrNoNetSignal)
		}
		spec := SegmentSpec{UUID: seg.UUID().String(), Net: ns.Name}
		for _, id := range seg.Vias() {
			v := seg.Via(id)
			spec.Vias = append(spec.Vias, ViaSpec{ID: v.UUID.String(), Position: coordOf(v.Position), Size: int64(v.Size)})
		}
		for _, id := range seg.NetPoints() {
			np := seg.NetPoint(id)
			spec.Points = append(spec.Points, PointSpec{ID: np.UUID.String(), Position: coordOf(np.Position), Layer: string(np.Layer)})
		}
		ref := func(a board.AnchorID) string {
			if id, ok := a.Pad(); ok {
				return padPrefix + b.Pad(id).Name
			}
			return seg.AnchorUUID(a).String()
		}
		for _, id := range seg.Lines() {
			l := seg.Line(id)
			spec.Lines = append(spec.Lines, LineSpec{
				UUID:  l.UUID.String(),
				From:  ref(l.Start),
				To:    ref(l.End),
				Layer: string(l.Layer),
				Width: int64(l.Width),
			})
		}
		f.Segments = append(f.Segments, spec)
	}
	return f, nil
}

func Save(w io.Writer, b *board.Board) error {
	f, err := FromBoard(b)
	if err != nil {
		return fmt.Errorf("write board file: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("write board file: %w", err)
	}
	return enc.Close()
}

func SaveFile(path string, b *board.Board) error {
	fd, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Save(fd, b); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}
