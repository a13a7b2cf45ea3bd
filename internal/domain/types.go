package domain

import "time"

type ProjectID string
type TurnID string
type TaskID string
type GanttItemID string
type ToolID string
type ReportID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Surface names one conversation of a project. Every surface keeps its own transcript.
type Surface string

const (
	SurfaceInitiation Surface = "initiation"  // plan drafting chat, feeds the plan report
	SurfaceToolSearch Surface = "tool-search" // tool search chat, feeds the recommended tools
	SurfaceToolReport Surface = "tool-report" // freeform tool advisor
	SurfaceGeneral    Surface = "general"     // plain chat, also available as a stream
)

// Surfaces lists every known surface in a stable order.
func Surfaces() []Surface {
	return []Surface{SurfaceInitiation, SurfaceToolSearch, SurfaceToolReport, SurfaceGeneral}
}

// ParseSurface maps a path segment to a Surface.
func ParseSurface(s string) (Surface, bool) {
	for _, sf := range Surfaces() {
		if string(sf) == s {
			return sf, true
		}
	}
	return "", false
}

type Timestamp = time.Time
