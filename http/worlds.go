package http

import (
	"net/http"
	"strconv"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/ingwaz/models"
	"github.com/aukilabs/ingwaz/spatial"
	"github.com/segmentio/encoding/json"
)

// WorldSummary is the short description of a world returned by the world
// listing.
type WorldSummary struct {
	ID       uint32         `json:"id"`
	UUID     string         `json:"uuid"`
	Name     string         `json:"name"`
	Bounds   spatial.Bounds `json:"bounds"`
	Entities int            `json:"entities"`
	Frame    uint64         `json:"frame"`
}

// WorldHandler serves the read-only world endpoints.
type WorldHandler struct {
	Worlds *models.WorldStore
}

// HandleList lists the worlds.
func (h WorldHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	worlds := h.Worlds.List()
	summaries := make([]WorldSummary, len(worlds))
	for i, world := range worlds {
		summaries[i] = WorldSummary{
			ID:       world.ID,
			UUID:     world.UUID,
			Name:     world.Name,
			Bounds:   world.Bounds(),
			Entities: world.EntityCount(),
			Frame:    world.LastReport().Frame,
		}
	}
	writeJSON(w, r, http.StatusOK, summaries)
}

// HandleDebug returns the snapshot of a world and of its tree.
func (h WorldHandler) HandleDebug(w http.ResponseWriter, r *http.Request) {
	world, ok := h.world(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, world.Snapshot())
}

// HandleQuery returns the entities overlapping a region.
func (h WorldHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	world, ok := h.world(w, r)
	if !ok {
		return
	}

	values, err := parseFloats(r, "left", "top", "right", "bottom")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	region := spatial.Bounds{Left: values[0], Top: values[1], Right: values[2], Bottom: values[3]}
	if !region.Valid() {
		writeError(w, r, http.StatusBadRequest, errors.New("invalid region").
			WithTag("region", region))
		return
	}

	entities := world.Query(region)
	if entities == nil {
		entities = []models.EntityInfo{}
	}
	writeJSON(w, r, http.StatusOK, entities)
}

// HandleSearch returns an entity found at a point.
func (h WorldHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	world, ok := h.world(w, r)
	if !ok {
		return
	}

	values, err := parseFloats(r, "x", "y")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	p := spatial.Point{X: values[0], Y: values[1]}
	e, ok := world.Search(p)
	if !ok {
		writeError(w, r, http.StatusNotFound, errors.New("no entity found").
			WithTag("point", p))
		return
	}
	writeJSON(w, r, http.StatusOK, e)
}

func (h WorldHandler) world(w http.ResponseWriter, r *http.Request) (*models.World, bool) {
	if !allowGet(w, r) {
		return nil, false
	}

	id := r.URL.Query().Get("world")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, errors.New("missing world parameter"))
		return nil, false
	}

	world, ok := h.Worlds.Get(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, errors.New("world not found").
			WithTag("world", id))
		return nil, false
	}
	return world, true
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func parseFloats(r *http.Request, names ...string) ([]float64, error) {
	query := r.URL.Query()
	values := make([]float64, len(names))

	for i, name := range names {
		v, err := strconv.ParseFloat(query.Get(name), 64)
		if err != nil {
			return nil, errors.New("invalid query parameter").
				WithTag("parameter", name).
				Wrap(err)
		}
		values[i] = v
	}
	return values, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	logs.WithTag("path", r.URL.Path).
		WithTag("status", status).
		Debug(err)

	writeJSON(w, r, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		logs.WithTag("path", r.URL.Path).
			Error(errors.New("encoding response failed").Wrap(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}
