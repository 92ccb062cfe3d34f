package renderer

import (
	"context"
	"runtime"
	"sync"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile          *Tile
	PassNumber    int
	TargetSamples int
	TaskID        int            // For deterministic ordering
	PixelStats    [][]PixelStats // Shared pixel stats array to write to
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
	Error  error
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	ctx         context.Context
	renderer    *TileRenderer
	seed        int64
	taskQueue   chan TileTask
	resultQueue chan TileResult
	numWorkers  int
	wg          sync.WaitGroup
	started     bool
}

// NewWorkerPool creates a worker pool able to queue one full pass of tiles
func NewWorkerPool(ctx context.Context, renderer *TileRenderer, numTiles, numWorkers int, seed int64) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		ctx:         ctx,
		renderer:    renderer,
		seed:        seed,
		taskQueue:   make(chan TileTask, numTiles),
		resultQueue: make(chan TileResult, numTiles),
		numWorkers:  numWorkers,
	}
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	if wp.started {
		return
	}
	wp.started = true
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run()
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (wp *WorkerPool) run() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		// Skip remaining tiles once the render is cancelled
		if err := wp.ctx.Err(); err != nil {
			wp.resultQueue <- TileResult{TaskID: task.TaskID, Error: err}
			continue
		}

		// Each tile has non-overlapping bounds, so writing the shared array is safe
		sampler := task.Tile.Sampler(wp.seed, task.PassNumber)
		stats := wp.renderer.RenderTileBounds(task.Tile.Bounds, task.PixelStats, sampler, task.TargetSamples)

		wp.resultQueue <- TileResult{TaskID: task.TaskID, Stats: stats}
	}
}
