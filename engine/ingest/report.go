package ingest

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jma1999/RIG/engine/spatial"
)

// Report summarizes one resolution pass.
type Report struct {
	RunID    string        `json:"run_id"`
	Source   string        `json:"source"`
	Duration time.Duration `json:"duration"`

	NodesCreated int `json:"nodes_created"`
	NodesRefined int `json:"nodes_refined"`
	EdgesCreated int `json:"edges_created"`
	EdgesExisted int `json:"edges_existed"`

	AssignedAuthoritative int `json:"assigned_authoritative"`
	AssignedContainment   int `json:"assigned_containment"`
	AssignedNearest       int `json:"assigned_nearest"`
	Unassigned            int `json:"unassigned"`
	TerminalsTagged       int `json:"terminals_tagged"`

	DanglingEdges   int `json:"dangling_edges"`
	CyclesTruncated int `json:"cycles_truncated"`
	Unresolved      int `json:"unresolved_positions"`
}

func newReport(source string) *Report {
	return &Report{RunID: uuid.NewString(), Source: source}
}

func (r *Report) countAssignment(m spatial.Method) {
	switch m {
	case spatial.Authoritative:
		r.AssignedAuthoritative++
	case spatial.Containment:
		r.AssignedContainment++
	case spatial.Nearest:
		r.AssignedNearest++
	default:
		r.Unassigned++
	}
}

// Log writes the report at info level.
func (r *Report) Log(log *slog.Logger) {
	log.Info("pass complete",
		"run_id", r.RunID,
		"source", r.Source,
		"duration", r.Duration,
		"nodes_created", r.NodesCreated,
		"nodes_refined", r.NodesRefined,
		"edges_created", r.EdgesCreated,
		"edges_existed", r.EdgesExisted,
		"assigned_authoritative", r.AssignedAuthoritative,
		"assigned_containment", r.AssignedContainment,
		"assigned_nearest", r.AssignedNearest,
		"unassigned", r.Unassigned,
		"terminals_tagged", r.TerminalsTagged,
		"dangling_edges", r.DanglingEdges,
		"cycles_truncated", r.CyclesTruncated,
		"unresolved_positions", r.Unresolved,
	)
}
