package grid

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"
)

// Layer is the tile source for one z-order. Rebuilding a layer replaces
// the level's tiles of that z-order with the layer's current tiles.
type Layer struct {
	ZOrder int
	Tiles  []TilePlacement
}

// Rebuilder rebuilds level solidity on a worker goroutine. The main thread
// keeps reading the current Level until Complete swaps in the new one.
type Rebuilder struct {
	Log *slog.Logger

	mu     sync.Mutex
	level  *Level
	layers map[int]Layer

	pending    []int
	queued     bool
	inProgress bool
	done       bool
	finished   chan struct{}
	result     *Level
	started    time.Time
}

func NewRebuilder(level *Level, layers []Layer, log *slog.Logger) *Rebuilder {
	if log == nil {
		log = slog.Default()
	}
	r := &Rebuilder{Log: log, level: level, layers: make(map[int]Layer, len(layers))}
	for _, l := range layers {
		r.layers[l.ZOrder] = l
	}
	return r
}

// Level returns the level gameplay should read.
func (r *Rebuilder) Level() *Level {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.level
}

// SetLayer replaces the tile source of a layer. The grid is unchanged
// until that layer is rebuilt.
func (r *Rebuilder) SetLayer(l Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layers[l.ZOrder] = Layer{ZOrder: l.ZOrder, Tiles: slices.Clone(l.Tiles)}
}

// InProgress reports whether a rebuild has started and not been completed.
func (r *Rebuilder) InProgress() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inProgress
}

// Start requests a rebuild of the given layers, or of every layer when
// none are named. A request made while a rebuild runs is merged into a
// single follow-up started by Complete.
func (r *Rebuilder) Start(layers []int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startLocked(layers)
}

func (r *Rebuilder) startLocked(layers []int) {
	switch {
	case len(layers) > 0 && (!r.queued || len(r.pending) > 0):
		r.pending = append(r.pending, layers...)
		slices.Sort(r.pending)
		r.pending = slices.Compact(r.pending)
	case len(layers) == 0:
		r.pending = nil
	}

	if r.inProgress {
		r.queued = true
		return
	}

	r.inProgress = true
	r.done = false
	r.result = nil
	r.finished = make(chan struct{})
	r.started = time.Now()

	job := rebuildJob{
		layers: r.pending,
		tiles:  slices.Clone(r.level.Tiles()),
		rects:  slices.Clone(r.level.Rects()),
		edits:  slices.Clone(r.level.edits),
		source: make(map[int][]TilePlacement, len(r.layers)),
	}
	for z, l := range r.layers {
		job.source[z] = slices.Clone(l.Tiles)
	}
	r.pending = nil

	go r.work(job, r.finished)
}

type rebuildJob struct {
	layers []int
	tiles  []TilePlacement
	rects  []SolidRect
	edits  []areaEdit
	source map[int][]TilePlacement
}

func (r *Rebuilder) work(job rebuildJob, finished chan struct{}) {
	level := job.build()

	r.mu.Lock()
	r.result = level
	r.done = true
	r.mu.Unlock()
	close(finished)
}

func (job rebuildJob) build() *Level {
	rebuilt := job.layers
	if len(rebuilt) == 0 {
		rebuilt = slices.Sorted(maps.Keys(job.source))
	}

	tiles := slices.DeleteFunc(job.tiles, func(t TilePlacement) bool {
		_, found := slices.BinarySearch(rebuilt, t.ZOrder)
		return found || len(job.layers) == 0
	})
	for _, z := range rebuilt {
		tiles = append(tiles, job.source[z]...)
	}
	slices.SortStableFunc(tiles, func(a, b TilePlacement) int { return a.ZOrder - b.ZOrder })

	level := NewLevel()
	level.tiles = tiles
	level.rects = job.rects
	level.edits = job.edits
	level.RefreshTiles()
	return level
}

// Complete swaps in a finished rebuild and starts the queued follow-up, if
// any. It returns false while the worker is still running.
func (r *Rebuilder) Complete() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inProgress {
		return true
	}
	if !r.done {
		return false
	}

	// Edits made on the old grid while the worker ran.
	for _, e := range r.level.edits[min(len(r.result.edits), len(r.level.edits)):] {
		r.result.SetSolidArea(e.rect, e.solid)
	}
	r.level = r.result
	r.result = nil
	r.inProgress = false
	r.Log.Info("tile rebuild complete", "tiles", len(r.level.Tiles()), "elapsed", time.Since(r.started))

	if r.queued {
		r.queued = false
		r.startLocked(r.pending)
	}
	return true
}

// Wait blocks until the running worker, if any, has finished. It does not
// swap the result in.
func (r *Rebuilder) Wait() {
	r.mu.Lock()
	finished := r.finished
	inProgress := r.inProgress
	r.mu.Unlock()
	if inProgress && finished != nil {
		<-finished
	}
}
