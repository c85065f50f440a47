// Package selfcheck verifies a running world: its tree invariants and its
// collision pairs against the brute-force reference.
package selfcheck

import (
	"net/http"
	"sort"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/ingwaz/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/encoding/json"
)

var selfCheckRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "selfcheck_runs_total",
	Help: "The number of world self checks by result.",
}, []string{"world", "result"})

// Pair is a pair of colliding entity ids, smallest first.
type Pair [2]uint32

func newPair(a, b *models.Entity) Pair {
	if a.ID > b.ID {
		a, b = b, a
	}
	return Pair{a.ID, b.ID}
}

// Result is the outcome of a self check.
type Result struct {
	World           string `json:"world"`
	Name            string `json:"name"`
	Frame           uint64 `json:"frame"`
	Valid           bool   `json:"valid"`
	Error           string `json:"error,omitempty"`
	Pairs           int    `json:"pairs"`
	BruteForcePairs int    `json:"brute_force_pairs"`

	// The pairs only found by the brute-force reference.
	Missing []Pair `json:"missing,omitempty"`

	// The pairs only found by the tree, or found more than once.
	Extra []Pair `json:"extra,omitempty"`
}

// Run checks the given world. The world is locked while the check runs.
func Run(w *models.World) Result {
	res := Result{
		World: w.UUID,
		Name:  w.Name,
	}

	w.Inspect(func(s *models.Scene) {
		res.Frame = s.Frame()

		if err := s.Tree().Validate(); err != nil {
			res.Error = err.Error()
		}

		pairs := make(map[Pair]int)
		res.Pairs = s.Tree().HandleCollisions(func(a, b *models.Entity) {
			pairs[newPair(a, b)]++
		})

		brute := make(map[Pair]int)
		res.BruteForcePairs = s.Tree().BruteForceCollisions(func(a, b *models.Entity) {
			brute[newPair(a, b)]++
		})

		res.Missing, res.Extra = diff(pairs, brute)
	})

	res.Valid = res.Error == "" && len(res.Missing) == 0 && len(res.Extra) == 0

	result := "pass"
	if !res.Valid {
		result = "fail"
		logs.WithTag("world", res.World).
			WithTag("frame", res.Frame).
			WithTag("missing", len(res.Missing)).
			WithTag("extra", len(res.Extra)).
			Error(errors.New("world self check failed").WithTag("reason", res.Error))
	}
	selfCheckRuns.WithLabelValues(w.Name, result).Inc()

	return res
}

func diff(pairs, reference map[Pair]int) (missing, extra []Pair) {
	for p := range reference {
		if _, ok := pairs[p]; !ok {
			missing = append(missing, p)
		}
	}

	for p, n := range pairs {
		if _, ok := reference[p]; !ok || n > 1 {
			extra = append(extra, p)
		}
	}

	sortPairs(missing)
	sortPairs(extra)
	return missing, extra
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
}

// HandleSelfCheck runs the self check of the world given by the world query
// parameter, or of every world when it is missing. It responds with
// http.StatusInternalServerError when a check fails.
func HandleSelfCheck(store *models.WorldStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		worlds := store.List()

		if id := r.URL.Query().Get("world"); id != "" {
			world, ok := store.Get(id)
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			worlds = []*models.World{world}
		}

		status := http.StatusOK
		results := make([]Result, len(worlds))
		for i, world := range worlds {
			results[i] = Run(world)
			if !results[i].Valid {
				status = http.StatusInternalServerError
			}
		}

		b, err := json.Marshal(results)
		if err != nil {
			logs.Error(errors.New("encoding self check results failed").Wrap(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(b)
	}
}
