package model

import "encoding/json"

// The submission payload mirrors what the canvas client captures. Every
// nested object is optional; absent fields take the zero-value defaults
// documented per field.

// SessionMetadata describes the session window and the capturing device.
type SessionMetadata struct {
	SessionID string `json:"sessionId"` // client UUID; regenerated server-side when absent or malformed
	StartTime string `json:"startTime"` // ISO-8601; unparseable values are tolerated and stored as NULL
	EndTime   string `json:"endTime"`
	Duration  int    `json:"duration"` // ms, defaults to 0

	UserAgent    string   `json:"userAgent"`
	Platform     string   `json:"platform"`
	PixelRatio   *float64 `json:"pixelRatio"`
	ScreenWidth  *int     `json:"screenWidth"`
	ScreenHeight *int     `json:"screenHeight"`
}

// DeviceCapabilities flags which pointer channels the device reports.
type DeviceCapabilities struct {
	Pressure  bool `json:"pressure"`
	Tilt      bool `json:"tilt"`
	Twist     bool `json:"twist"`
	Coalesced bool `json:"coalesced"`
}

// CanvasState is the viewport at submission time.
type CanvasState struct {
	LogicalWidth  *int     `json:"logicalWidth"`
	LogicalHeight *int     `json:"logicalHeight"`
	CSSWidth      *int     `json:"cssWidth"`
	CSSHeight     *int     `json:"cssHeight"`
	Zoom          *float64 `json:"zoom"`
	PanX          *int     `json:"panX"`
	PanY          *int     `json:"panY"`
}

// PointPayload is one sampled pointer position. The timestamp is relative
// to the session start; ingestion rebases it onto the stroke start.
type PointPayload struct {
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Timestamp int      `json:"timestamp"`
	Pressure  *float64 `json:"pressure"`
	TiltX     *int     `json:"tiltX"`
	TiltY     *int     `json:"tiltY"`
	Twist     *int     `json:"twist"`
	Width     *int     `json:"width"`
	Height    *int     `json:"height"`

	PointerType string `json:"pointerType"`
	PointerID   *int   `json:"pointerId"`
	Buttons     int    `json:"buttons"`
}

// StrokePayload is one continuous pen or eraser drag.
type StrokePayload struct {
	ID          string         `json:"id"` // ignored; ingestion assigns a fresh UUID
	Tool        string         `json:"tool"`
	Color       string         `json:"color"`
	StrokeWidth int            `json:"strokeWidth"`
	Points      []PointPayload `json:"points"`

	// Session-relative ms.
	StartTime int `json:"startTime"`
	EndTime   int `json:"endTime"`

	TotalDistance   float64  `json:"totalDistance"`
	AverageSpeed    *float64 `json:"averageSpeed"`
	AveragePressure *float64 `json:"averagePressure"`

	PointerType string `json:"pointerType"`
	IsCoalesced bool   `json:"isCoalesced"`
}

// EventPayload is one discrete UI event.
type EventPayload struct {
	Type      string          `json:"type"`
	Timestamp int             `json:"timestamp"` // session-relative ms
	Data      json.RawMessage `json:"data"`
}

// CanvasData groups the captured drawing history. VisibleStrokes, when
// sent, is the subset the client wants graded; the full stroke list is
// always persisted for audit.
type CanvasData struct {
	Strokes        []StrokePayload `json:"strokes"`
	VisibleStrokes []StrokePayload `json:"visibleStrokes"`
	Events         []EventPayload  `json:"events"`
	CanvasState    *CanvasState    `json:"canvasState"`
}

// SessionStatistics are client-precomputed summary counters.
type SessionStatistics struct {
	UndoCount           int      `json:"undoCount"`
	RedoCount           int      `json:"redoCount"`
	EraserCount         int      `json:"eraserCount"`
	ZoomCount           int      `json:"zoomCount"`
	PanCount            int      `json:"panCount"`
	ToolChanges         int      `json:"toolChanges"`
	TotalDistance       float64  `json:"totalDistance"`
	AverageStrokeLength *float64 `json:"averageStrokeLength"`
	SessionDuration     int      `json:"sessionDuration"` // fallback when metadata.duration is absent
}

// SessionData is the full capture for one solving session.
type SessionData struct {
	Metadata           SessionMetadata    `json:"metadata"`
	DeviceCapabilities DeviceCapabilities `json:"deviceCapabilities"`
	CanvasData         CanvasData         `json:"canvasData"`
	Statistics         SessionStatistics  `json:"statistics"`
}

// UserAnswer is the submitted answer. Type selects the verification
// variant: "multiple_choice" uses SelectedIndex, anything else compares
// Answer as free text.
type UserAnswer struct {
	Type          string `json:"type"`
	SelectedIndex *int   `json:"selectedIndex"`
	SelectedValue string `json:"selectedValue"`
	Answer        string `json:"answer"`
}

// VerifyRequest is the body of POST /api/verify-solution.
type VerifyRequest struct {
	QuestionID  uint        `json:"question_id"`
	ProblemName string      `json:"problem_name"`
	CategoryID  uint        `json:"category_id"`
	Difficulty  int         `json:"difficulty"`
	UserAnswer  UserAnswer  `json:"user_answer"`
	SessionData SessionData `json:"session_data"`

	// Label must be 0, 1 or absent.
	Label *int `json:"label"`
}
