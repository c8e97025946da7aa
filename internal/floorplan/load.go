package floorplan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrUnknownCorner is returned when a wall or room references a corner ID
// that the plan does not define.
var ErrUnknownCorner = errors.New("unknown corner")

// Default dimensions applied when a plan file omits them.
const (
	DefaultWallHeight    = 250
	DefaultWallThickness = 10
)

// Plan is the on-disk JSON form of a design.
type Plan struct {
	Floorplan struct {
		Corners map[string]PlanCorner `json:"corners"`
		Walls   []PlanWall            `json:"walls"`
		Rooms   []PlanRoom            `json:"rooms"`
	} `json:"floorplan"`
	Items []PlanItem `json:"items"`
}

// PlanCorner is a corner entry keyed by ID in Plan.
type PlanCorner struct {
	X         float32  `json:"x"`
	Y         float32  `json:"y"`
	Elevation *float32 `json:"elevation,omitempty"`
}

// PlanWall references two corners by ID.
type PlanWall struct {
	Corner1   string   `json:"corner1"`
	Corner2   string   `json:"corner2"`
	Thickness *float32 `json:"thickness,omitempty"`
}

// PlanRoom lists its corners by ID, in polygon order.
type PlanRoom struct {
	Name    string   `json:"name"`
	Corners []string `json:"corners"`
}

// PlanItem is a placed item.
type PlanItem struct {
	ItemMetadata
	XPos     float32 `json:"xpos"`
	YPos     float32 `json:"ypos"`
	ZPos     float32 `json:"zpos"`
	Rotation float32 `json:"rotation"`
	Width    float32 `json:"width"`
	Height   float32 `json:"height"`
	Depth    float32 `json:"depth"`
	Fixed    bool    `json:"fixed"`
}

// DecodePlan reads a JSON plan from r.
func DecodePlan(r io.Reader) (*Plan, error) {
	var p Plan
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &p, nil
}

// LoadFile reads the plan at path and loads it into m.
func (m *Model) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	p, err := DecodePlan(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return m.Load(p)
}

// Load replaces the model's floorplan and items with p. The floorplan
// announces RoomsRebuilt first, then the model announces ItemsLoaded.
// On error the model is left unchanged.
func (m *Model) Load(p *Plan) error {
	fp := New()
	ids := make([]string, 0, len(p.Floorplan.Corners))
	for id := range p.Floorplan.Corners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	byID := make(map[string]*Corner, len(ids))
	for _, id := range ids {
		pc := p.Floorplan.Corners[id]
		elev := float32(DefaultWallHeight)
		if pc.Elevation != nil {
			elev = *pc.Elevation
		}
		c := fp.NewCorner(pc.X, pc.Y, elev)
		c.ID = id
		byID[id] = c
	}
	lookup := func(id string) (*Corner, error) {
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCorner, id)
		}
		return c, nil
	}
	for _, pw := range p.Floorplan.Walls {
		a, err := lookup(pw.Corner1)
		if err != nil {
			return err
		}
		b, err := lookup(pw.Corner2)
		if err != nil {
			return err
		}
		th := float32(DefaultWallThickness)
		if pw.Thickness != nil {
			th = *pw.Thickness
		}
		fp.NewWall(a, b, th)
	}
	for _, pr := range p.Floorplan.Rooms {
		cs := make([]*Corner, 0, len(pr.Corners))
		for _, id := range pr.Corners {
			c, err := lookup(id)
			if err != nil {
				return err
			}
			cs = append(cs, c)
		}
		fp.NewRoom(pr.Name, cs...)
	}
	items := make([]*Item, 0, len(p.Items))
	for _, pi := range p.Items {
		md := pi.ItemMetadata
		it := &Item{
			Position: rl.NewVector3(pi.XPos, pi.YPos, pi.ZPos),
			Rotation: pi.Rotation,
			Size:     rl.NewVector3(pi.Width, pi.Height, pi.Depth),
			Fixed:    pi.Fixed,
		}
		if md != (ItemMetadata{}) {
			it.Metadata = &md
		}
		items = append(items, it)
	}

	m.floorplan.corners = fp.corners
	m.floorplan.walls = fp.walls
	m.floorplan.rooms = fp.rooms
	m.floorplan.Update()
	m.SetItems(items)
	return nil
}
