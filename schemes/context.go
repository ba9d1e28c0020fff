package schemes

import (
	"encoding/json"

	"nucleus/kurl"
	"nucleus/resource"
	"nucleus/sched"
	"nucleus/session"
)

// contextDump is the JSON shape the "context" scheme returns on Read, one
// entry per Context known to the scheduler at the moment of Open.
type contextDump struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ContextInfo implements the "context" scheme: a read-only introspection
// endpoint returning a JSON snapshot of every scheduled Context, standing
// in for the original kernel's /context filesystem-style debug surface.
type ContextInfo struct {
	session.DefaultScheme
	scheduler *sched.Scheduler
}

// NewContextInfo creates a ContextInfo scheme backed by sched.
func NewContextInfo(sched *sched.Scheduler) *ContextInfo {
	return &ContextInfo{scheduler: sched}
}

func (c *ContextInfo) Name() string { return "context" }

func (c *ContextInfo) Open(u kurl.URL, flags int) (resource.Resource, error) {
	dumps := make([]contextDump, 0)
	for _, ctx := range c.scheduler.Contexts() {
		dumps = append(dumps, contextDump{ID: ctx.ID, Name: ctx.Name, Status: ctx.Status().String()})
	}
	data, err := json.Marshal(dumps)
	if err != nil {
		return nil, err
	}
	return resource.NewByteVector(u, data), nil
}
