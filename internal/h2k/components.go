package h2k

import (
	"fmt"

	"github.com/canmet-energy/h2k-hpxml/internal/xmltree"
)

// =============================================================================
// CONTAINERS
// =============================================================================

const components = "House/Components"

func (e *Extractor) walls() []*xmltree.Node {
	return e.doc.Root.FindAll(components + "/Wall")
}

func (e *Extractor) basements() []*xmltree.Node {
	return e.doc.Root.FindAll(components + "/Basement")
}

func (e *Extractor) ceilings() []*xmltree.Node {
	return e.doc.Root.FindAll(components + "/Ceiling")
}

// parentOf builds the link a nested component carries to its container.
func parentOf(kind ParentKind, n *xmltree.Node) ParentRef {
	ref := ParentRef{Kind: kind}
	ref.ID, _ = n.Attr("id")
	if l := n.Child("Label"); l != nil {
		ref.Label = l.Text
	}
	return ref
}

// =============================================================================
// WALLS
// =============================================================================

// Walls returns every above-grade wall in document order.
func (e *Extractor) Walls() ([]Wall, error) {
	var out []Wall
	for _, n := range e.walls() {
		r := newReader(n, identify("wall", n))
		w := Wall{
			ID:                    r.str("", "id"),
			Label:                 r.text("Label"),
			AdjacentEnclosedSpace: r.bool("", "adjacentEnclosedSpace"),
			Corners:               r.int("Construction", "corners"),
			Intersections:         r.int("Construction", "intersections"),
			TypeRef:               r.str("Construction/Type", "idref"),
			NominalInsulation:     r.float("Construction/Type", "nominalInsulation"),
			RValue:                r.float("Construction/Type", "rValue"),
			Height:                r.float("Measurements", "height"),
			Perimeter:             r.float("Measurements", "perimeter"),
			FacingDirection:       r.coded("FacingDirection"),
		}
		if r.err != nil {
			return nil, r.err
		}
		out = append(out, w)
	}
	return out, nil
}

// =============================================================================
// WINDOWS, DOORS AND FLOOR HEADERS
// =============================================================================

// Windows returns every window of every wall and basement. Within each
// container its own windows come first, then the windows of its doors.
// Skylights are returned by Skylights.
func (e *Extractor) Windows() ([]Window, error) {
	var out []Window
	collect := func(container *xmltree.Node, kind ParentKind) error {
		parent := parentOf(kind, container)
		for _, n := range container.FindAll("Components/Window") {
			w, err := readWindow(n, parent)
			if err != nil {
				return err
			}
			out = append(out, w)
		}
		for _, door := range container.FindAll("Components/Door") {
			doorRef := parentOf(ParentDoor, door)
			for _, n := range door.FindAll("Components/Window") {
				w, err := readWindow(n, doorRef)
				if err != nil {
					return err
				}
				out = append(out, w)
			}
		}
		return nil
	}

	for _, wall := range e.walls() {
		if err := collect(wall, ParentWall); err != nil {
			return nil, err
		}
	}
	for _, bsmt := range e.basements() {
		if err := collect(bsmt, ParentBasement); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Skylights returns the windows of every ceiling.
func (e *Extractor) Skylights() ([]Window, error) {
	var out []Window
	for _, ceiling := range e.ceilings() {
		parent := parentOf(ParentCeiling, ceiling)
		for _, n := range ceiling.FindAll("Components/Window") {
			w, err := readWindow(n, parent)
			if err != nil {
				return nil, err
			}
			out = append(out, w)
		}
	}
	return out, nil
}

func readWindow(n *xmltree.Node, parent ParentRef) (Window, error) {
	r := newReader(n, identify("window", n))
	w := Window{
		Parent:                parent,
		ID:                    r.str("", "id"),
		Label:                 r.text("Label"),
		Number:                r.int("", "number"),
		EnergyRating:          r.float("", "er"),
		SHGC:                  r.float("", "shgc"),
		FrameHeight:           r.float("", "frameHeight"),
		FrameAreaFraction:     r.float("", "frameAreaFraction"),
		EdgeOfGlassFraction:   r.float("", "edgeOfGlassFraction"),
		CentreOfGlassFraction: r.float("", "centreOfGlassFraction"),
		EnergyStar:            r.bool("Construction", "energyStar"),
		TypeRef:               r.str("Construction/Type", "idref"),
		RValue:                r.float("Construction/Type", "rValue"),
		Height:                r.float("Measurements", "height"),
		Width:                 r.float("Measurements", "width"),
		HeaderHeight:          r.float("Measurements", "headerHeight"),
		OverhangWidth:         r.float("Measurements", "overhangWidth"),
		Tilt: TiltAngle{
			Code:  r.int("Measurements/Tilt", "code"),
			Value: r.float("Measurements/Tilt", "value"),
			Label: r.text("Measurements/Tilt/English"),
		},
		Curtain:         r.float("Shading", "curtain"),
		ShutterRValue:   r.float("Shading", "shutterRValue"),
		FacingDirection: r.coded("FacingDirection"),
	}
	if r.err != nil {
		return Window{}, r.err
	}
	return w, nil
}

// Doors returns the doors of every wall, then of every basement.
func (e *Extractor) Doors() ([]Door, error) {
	var out []Door
	collect := func(container *xmltree.Node, kind ParentKind) error {
		parent := parentOf(kind, container)
		for _, n := range container.FindAll("Components/Door") {
			r := newReader(n, identify("door", n))
			d := Door{
				Parent:     parent,
				ID:         r.str("", "id"),
				Label:      r.text("Label"),
				RValue:     r.float("", "rValue"),
				EnergyStar: r.bool("Construction", "energyStar"),
				Type:       r.text("Construction/Type/English"),
				Height:     r.float("Measurements", "height"),
				Width:      r.float("Measurements", "width"),
			}
			if r.err != nil {
				return r.err
			}
			out = append(out, d)
		}
		return nil
	}

	for _, wall := range e.walls() {
		if err := collect(wall, ParentWall); err != nil {
			return nil, err
		}
	}
	for _, bsmt := range e.basements() {
		if err := collect(bsmt, ParentBasement); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FloorHeaders returns the floor headers of every wall, then of every
// basement.
func (e *Extractor) FloorHeaders() ([]FloorHeader, error) {
	var out []FloorHeader
	collect := func(container *xmltree.Node, kind ParentKind) error {
		parent := parentOf(kind, container)
		for _, n := range container.FindAll("Components/FloorHeader") {
			r := newReader(n, identify("floor header", n))
			h := FloorHeader{
				Parent:            parent,
				ID:                r.str("", "id"),
				Label:             r.text("Label"),
				TypeRef:           r.str("Construction/Type", "idref"),
				NominalInsulation: r.float("Construction/Type", "nominalInsulation"),
				RValue:            r.float("Construction/Type", "rValue"),
				Height:            r.float("Measurements", "height"),
				Perimeter:         r.float("Measurements", "perimeter"),
			}
			if r.err != nil {
				return r.err
			}
			out = append(out, h)
		}
		return nil
	}

	for _, wall := range e.walls() {
		if err := collect(wall, ParentWall); err != nil {
			return nil, err
		}
	}
	for _, bsmt := range e.basements() {
		if err := collect(bsmt, ParentBasement); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// =============================================================================
// CEILINGS AND FLOORS
// =============================================================================

// Ceilings returns every ceiling in document order.
func (e *Extractor) Ceilings() ([]Ceiling, error) {
	var out []Ceiling
	for _, n := range e.ceilings() {
		r := newReader(n, identify("ceiling", n))
		c := Ceiling{
			ID:                r.str("", "id"),
			Label:             r.text("Label"),
			Type:              r.text("Construction/Type/English"),
			TypeRef:           r.str("Construction/CeilingType", "idref"),
			NominalInsulation: r.float("Construction/CeilingType", "nominalInsulation"),
			RValue:            r.float("Construction/CeilingType", "rValue"),
			Area:              r.float("Measurements", "area"),
			HeelHeight:        r.float("Measurements", "heelHeight"),
			Length:            r.float("Measurements", "length"),
			SlopeCode:         r.int("Measurements/Slope", "code"),
			SlopeValue:        r.float("Measurements/Slope", "value"),
		}
		if r.err != nil {
			return nil, r.err
		}
		out = append(out, c)
	}
	return out, nil
}

// Floors returns every exposed floor in document order.
func (e *Extractor) Floors() ([]Floor, error) {
	var out []Floor
	for _, n := range e.doc.Root.FindAll(components + "/Floor") {
		r := newReader(n, identify("floor", n))
		f := Floor{
			ID:                r.str("", "id"),
			Label:             r.text("Label"),
			TypeRef:           r.str("Construction/Type", "idref"),
			NominalInsulation: r.float("Construction/Type", "nominalInsulation"),
			RValue:            r.float("Construction/Type", "rValue"),
			Area:              r.float("Measurements", "area"),
			Length:            r.float("Measurements", "length"),
		}
		if r.err != nil {
			return nil, r.err
		}
		out = append(out, f)
	}
	return out, nil
}

// =============================================================================
// BASEMENTS
// =============================================================================

// Basements returns every basement in document order.
func (e *Extractor) Basements() ([]Basement, error) {
	var out []Basement
	for _, n := range e.basements() {
		b, err := readBasement(n)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func readBasement(n *xmltree.Node) (Basement, error) {
	r := newReader(n, identify("basement", n))
	b := Basement{
		ID:                      r.str("", "id"),
		Label:                   r.text("Label"),
		IsExposedSurface:        r.bool("", "isExposedSurface"),
		ExposedSurfacePerimeter: r.float("", "exposedSurfacePerimeter"),
		Configuration: Configuration{
			Type:    r.str("Configuration", "type"),
			Subtype: r.str("Configuration", "subtype"),
			Overlap: r.float("Configuration", "overlap"),
		},
		OpeningUpstairs: Schedule{
			Code:  r.int("OpeningUpstairs", "code"),
			Value: r.float("OpeningUpstairs", "value"),
		},
		RoomType: r.coded("RoomType"),
		Floor: BasementFloor{
			IsBelowFrostline:   r.bool("Floor/Construction", "isBelowFrostline"),
			HasIntegralFooting: r.bool("Floor/Construction", "hasIntegralFooting"),
			Heated:             r.bool("Floor/Construction", "heatedFloor"),
			AddedToSlab: SlabInsulation{
				RValue:  r.float("Floor/Construction/AddedToSlab", "rValue"),
				Nominal: r.float("Floor/Construction/AddedToSlab", "nominalInsulation"),
			},
			FloorsAbove: SlabInsulation{
				RValue:  r.float("Floor/Construction/FloorsAbove", "rValue"),
				Nominal: r.float("Floor/Construction/FloorsAbove", "nominalInsulation"),
			},
			IsRectangular: r.bool("Floor/Measurements", "isRectangular"),
		},
		Wall: BasementWall{
			Corners:        r.int("Wall/Construction", "corners"),
			Height:         r.float("Wall/Measurements", "height"),
			Depth:          r.float("Wall/Measurements", "depth"),
			PonyWallHeight: r.float("Wall/Measurements", "ponyWallHeight"),
		},
	}

	// Exactly one geometry mode applies.
	if b.Floor.IsRectangular {
		dims := Dimensions{
			Length: r.float("Floor/Measurements", "length"),
			Width:  r.float("Floor/Measurements", "width"),
		}
		b.Floor.Dimensions = &dims
		b.Floor.Area = dims.Length * dims.Width
		b.Floor.Perimeter = 2 * (dims.Length + dims.Width)
	} else {
		b.Floor.Area = r.float("Floor/Measurements", "area")
		b.Floor.Perimeter = r.float("Floor/Measurements", "perimeter")
	}

	if r.bool("Wall", "hasPonyWall") {
		b.Wall.PonyWall = &PonyWall{
			NominalRSI: r.float("Wall/Construction/PonyWallType/Composite/Section", "nominalRsi"),
			RSI:        r.float("Wall/Construction/PonyWallType/Composite/Section", "rsi"),
		}
	}

	if r.has("Wall/Construction/InteriorAddedInsulation") {
		b.Wall.InteriorInsulation = readAddedInsulation(r, "Wall/Construction/InteriorAddedInsulation")
	}
	if r.has("Wall/Construction/ExteriorAddedInsulation") {
		b.Wall.ExteriorInsulation = readAddedInsulation(r, "Wall/Construction/ExteriorAddedInsulation")
	}

	if r.err != nil {
		return Basement{}, r.err
	}
	return b, nil
}

// readAddedInsulation reads a composite insulation layer. The last section's
// percentage is always the remainder of 100 after the others, whatever the
// document states for it.
func readAddedInsulation(r *fieldReader, path string) *AddedInsulation {
	ins := &AddedInsulation{
		Nominal: r.float(path, "nominalInsulation"),
	}

	sections := r.node.FindAll(path + "/Composite/Section")
	sum := 0.0
	for i, n := range sections {
		sr := newReader(n, r.element)
		s := CompositeSection{RSI: sr.float("", "rsi")}
		if i < len(sections)-1 {
			s.Percentage = sr.float("", "percentage")
			sum += s.Percentage
		} else {
			s.Percentage = 100 - sum
			if s.Percentage < 0 {
				sr.invalid("", "percentage", "", fmt.Sprintf("section percentages sum to %g, leaving no remainder", sum))
			}
		}
		if sr.err != nil {
			if r.err == nil {
				r.err = sr.err
			}
			return nil
		}
		ins.Sections = append(ins.Sections, s)
	}
	return ins
}
