package models

import (
	"time"

	"github.com/aukilabs/ingwaz/spatial"
)

// Entity is an object living in a world.
type Entity struct {
	ID   uint32
	Tags []string

	// The distance travelled per second.
	Velocity spatial.Point

	// The time after which the entity is swept from the world. Zero means the
	// entity never expires.
	TTL time.Duration
	Age time.Duration

	body   spatial.Body
	handle spatial.Handle
	dead   bool
}

func NewEntity(body spatial.Body, tags ...string) *Entity {
	return &Entity{
		Tags: tags,
		body: body,
	}
}

func (e *Entity) Body() spatial.Body {
	return e.body
}

func (e *Entity) Position() spatial.Point {
	return e.body.Position
}

func (e *Entity) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// MakeDead marks the entity for removal at the end of the current frame.
func (e *Entity) MakeDead() {
	e.dead = true
}

func (e *Entity) IsDead() bool {
	return e.dead
}

// Expired reports whether the entity outlived its TTL.
func (e *Entity) Expired() bool {
	return e.TTL > 0 && e.Age > e.TTL
}

func (e *Entity) Info() EntityInfo {
	info := EntityInfo{
		ID:       e.ID,
		Tags:     e.Tags,
		Position: e.body.Position,
		Velocity: e.Velocity,
		Dead:     e.dead,
	}
	if e.body.HasRect {
		rect := e.body.Rect
		info.Rect = &rect
	}
	return info
}

// EntityInfo is the serializable view of an entity.
type EntityInfo struct {
	ID       uint32          `json:"id"`
	Tags     []string        `json:"tags,omitempty"`
	Position spatial.Point   `json:"position"`
	Rect     *spatial.Bounds `json:"rect,omitempty"`
	Velocity spatial.Point   `json:"velocity"`
	Dead     bool            `json:"dead,omitempty"`
}

func EntitiesToInfo(entities []*Entity) []EntityInfo {
	infos := make([]EntityInfo, len(entities))
	for i, e := range entities {
		infos[i] = e.Info()
	}
	return infos
}
