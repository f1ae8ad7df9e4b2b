package httpapi

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"coursetable/pkg/model"
)

// runManager tracks asynchronous schedule runs by id. State changes only
// happen under the mutex; a recorded result is never mutated afterwards.
type runManager struct {
	mutex sync.RWMutex
	runs  map[string]*scheduleRun
}

type scheduleRun struct {
	id       string
	started  time.Time
	catalog  *model.Catalog
	finished bool
	elapsed  time.Duration
	result   *model.Result
	err      error
}

// runSnapshot is a point-in-time copy of a run, safe to read outside the
// manager's lock.
type runSnapshot struct {
	ID       string
	Started  time.Time
	Catalog  *model.Catalog
	Finished bool
	Elapsed  time.Duration
	Result   *model.Result
	Err      error
}

func newRunManager() *runManager {
	return &runManager{runs: map[string]*scheduleRun{}}
}

// begin registers a run over the given catalog and returns its id.
func (manager *runManager) begin(catalog *model.Catalog) string {
	id := uuid.NewString()
	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	manager.runs[id] = &scheduleRun{id: id, started: time.Now(), catalog: catalog}
	return id
}

// finish records the outcome of a run.
func (manager *runManager) finish(id string, result *model.Result, err error, elapsed time.Duration) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	run, ok := manager.runs[id]
	if !ok {
		panic(fmt.Sprintf("finish of unknown run %v", id))
	}
	run.finished = true
	run.result = result
	run.err = err
	run.elapsed = elapsed
}

// get returns a snapshot of the run, if known.
func (manager *runManager) get(id string) (runSnapshot, bool) {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()
	run, ok := manager.runs[id]
	if !ok {
		return runSnapshot{}, false
	}
	return runSnapshot{
		ID:       run.id,
		Started:  run.started,
		Catalog:  run.catalog,
		Finished: run.finished,
		Elapsed:  run.elapsed,
		Result:   run.result,
		Err:      run.err,
	}, true
}
