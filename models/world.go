package models

import (
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/ingwaz/spatial"
	"github.com/google/uuid"
)

// Behavior reacts to the frames of a world. Behaviors are called with the
// world lock held and must use the given scene rather than the world.
type Behavior interface {
	// Called once per frame for every entity alive at the start of the update
	// phase.
	Update(s *Scene, e *Entity, dt time.Duration)

	// Called once per colliding pair during the collision phase. The tree
	// cannot be mutated at this point: entities are removed by being marked
	// dead.
	HandleCollision(s *Scene, a, b *Entity)
}

// FrameUpdater is implemented by behaviors that also act once per frame,
// before the entities are updated.
type FrameUpdater interface {
	UpdateFrame(s *Scene, dt time.Duration)
}

// FrameReport summarizes an executed frame.
type FrameReport struct {
	World    string        `json:"world"`
	Frame    uint64        `json:"frame"`
	Pairs    int           `json:"pairs"`
	Swept    int           `json:"swept"`
	Entities int           `json:"entities"`
	Duration time.Duration `json:"duration"`

	// The number of frames per second, measured since the previous frame.
	Rate float64 `json:"rate"`

	Invalid bool `json:"invalid,omitempty"`
}

// World is a scene driven by frames. Each frame runs the collision phase,
// the update phase and the dead entity sweep, in that order.
type World struct {
	ID   uint32
	UUID string
	Name string

	// Checks the tree invariants at the end of each frame.
	ValidateFrames bool

	mutex      sync.Mutex
	scene      *Scene
	behaviors  []Behavior
	lastReport FrameReport
	lastStart  time.Time

	startFrameOnce  sync.Once
	closeFrameChan  chan struct{}
	frameDuration   time.Duration
	frameTicker     *time.Ticker
	frameHandlerIDs SequentialIDGenerator
	frameHandlers   map[uint32]func(FrameReport)
	frameMutex      sync.RWMutex

	closeOnce sync.Once
}

func NewWorld(id uint32, name string, bounds spatial.Bounds, opts spatial.Options, frameDuration time.Duration) (*World, error) {
	scene, err := newScene(name, bounds, opts)
	if err != nil {
		return nil, err
	}

	return &World{
		ID:             id,
		UUID:           uuid.New().String(),
		Name:           name,
		scene:          scene,
		closeFrameChan: make(chan struct{}, 1),
		frameDuration:  frameDuration,
		frameTicker:    time.NewTicker(frameDuration),
		frameHandlers:  make(map[uint32]func(FrameReport)),
	}, nil
}

func (w *World) Close() {
	w.closeOnce.Do(func() {
		w.frameTicker.Stop()
		w.closeFrameChan <- struct{}{}
	})
}

// Bounds returns the world bounds.
func (w *World) Bounds() spatial.Bounds {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	return w.scene.Bounds()
}

func (w *World) FrameDuration() time.Duration {
	return w.frameDuration
}

func (w *World) AddBehavior(b Behavior) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.behaviors = append(w.behaviors, b)
}

func (w *World) AddEntity(e *Entity) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	return w.scene.AddEntity(e)
}

func (w *World) MoveEntity(id uint32, p spatial.Point) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	e, err := w.scene.entity(id)
	if err != nil {
		return err
	}
	return w.scene.MoveEntity(e, p)
}

func (w *World) RemoveEntity(id uint32) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	return w.scene.removeEntity(id)
}

// EntityByID returns a copy of the entity with the given id.
func (w *World) EntityByID(id uint32) (EntityInfo, bool) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	e, ok := w.scene.EntityByID(id)
	if !ok {
		return EntityInfo{}, false
	}
	return e.Info(), true
}

// Entities returns a copy of the entities, in insertion order.
func (w *World) Entities() []EntityInfo {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	return EntitiesToInfo(w.scene.order)
}

func (w *World) EntityCount() int {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	return w.scene.Len()
}

// Query returns the entities whose extent overlaps region.
func (w *World) Query(region spatial.Bounds) []EntityInfo {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	return EntitiesToInfo(w.scene.Query(region))
}

// Search returns an entity found at p.
func (w *World) Search(p spatial.Point) (EntityInfo, bool) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	e, ok := w.scene.Search(p)
	if !ok {
		return EntityInfo{}, false
	}
	return e.Info(), true
}

// Inspect calls fn with the scene while holding the world lock.
func (w *World) Inspect(fn func(s *Scene)) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	fn(w.scene)
}

// Snapshot returns the state of the world and of its tree.
func (w *World) Snapshot() WorldSnapshot {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	return WorldSnapshot{
		ID:         w.ID,
		UUID:       w.UUID,
		Name:       w.Name,
		LastReport: w.lastReport,
		Tree:       w.scene.tree.DebugInfo(),
		Entities:   EntitiesToInfo(w.scene.order),
	}
}

// Frame executes a frame with dt as the elapsed time and notifies the frame
// handlers.
func (w *World) Frame(dt time.Duration) FrameReport {
	start := time.Now()

	w.mutex.Lock()
	s := w.scene
	s.frame++

	report := FrameReport{
		World: w.UUID,
		Frame: s.frame,
	}
	if !w.lastStart.IsZero() {
		if elapsed := start.Sub(w.lastStart); elapsed > 0 {
			report.Rate = float64(time.Second) / float64(elapsed)
		}
	}
	w.lastStart = start

	report.Pairs = s.tree.HandleCollisions(func(a, b *Entity) {
		for _, bh := range w.behaviors {
			bh.HandleCollision(s, a, b)
		}
	})

	for _, bh := range w.behaviors {
		if fu, ok := bh.(FrameUpdater); ok {
			fu.UpdateFrame(s, dt)
		}
	}

	// Entities spawned during the update phase wait for the next frame.
	n := len(s.order)
	for i := 0; i < n; i++ {
		e := s.order[i]
		if e.dead {
			continue
		}

		e.Age += dt
		for _, bh := range w.behaviors {
			bh.Update(s, e, dt)
		}
	}

	report.Swept = s.sweep()
	report.Entities = s.Len()

	if w.ValidateFrames {
		if err := s.tree.Validate(); err != nil {
			report.Invalid = true
			instrumentInvariantViolation(w.Name)
			logs.WithTag("world", w.UUID).
				WithTag("frame", s.frame).
				Error(err)
		}
	}

	report.Duration = time.Since(start)
	w.lastReport = report
	w.mutex.Unlock()

	instrumentFrame(w.Name, report)

	w.frameMutex.RLock()
	for _, h := range w.frameHandlers {
		h(report)
	}
	w.frameMutex.RUnlock()

	return report
}

func (w *World) LastReport() FrameReport {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	return w.lastReport
}

// HandleFrame registers h to be called after each frame. Handlers are called
// without the world lock held.
func (w *World) HandleFrame(h func(FrameReport)) (cancel func()) {
	w.frameMutex.Lock()
	defer w.frameMutex.Unlock()

	id := w.frameHandlerIDs.New()
	w.frameHandlers[id] = h

	return func() {
		w.frameMutex.Lock()
		defer w.frameMutex.Unlock()

		delete(w.frameHandlers, id)
		w.frameHandlerIDs.Reuse(id)
	}
}

// StartDispatchFrames executes a frame at every tick until the world is
// closed. It blocks.
func (w *World) StartDispatchFrames() {
	w.startFrameOnce.Do(func() {
		for {
			select {
			case <-w.closeFrameChan:
				return

			case <-w.frameTicker.C:
				w.Frame(w.frameDuration)
			}
		}
	})
}

// WorldSnapshot is the serializable state of a world.
type WorldSnapshot struct {
	ID         uint32            `json:"id"`
	UUID       string            `json:"uuid"`
	Name       string            `json:"name"`
	LastReport FrameReport       `json:"last_report"`
	Tree       spatial.DebugInfo `json:"tree"`
	Entities   []EntityInfo      `json:"entities"`
}
